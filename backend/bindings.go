package backend

import "fmt"

// Bindings tracks the images bound at SlotVolume and SlotPositions.
// Devices embed it to share slot validation.
type Bindings struct {
	volume    VolumeImage
	positions PositionImage
}

// Bind binds img at slot. The image kind must match the slot.
func (b *Bindings) Bind(slot Slot, img Image) error {
	switch slot {
	case SlotVolume:
		v, ok := img.(VolumeImage)
		if !ok {
			return fmt.Errorf("%w: %T at %v", ErrInvalidSlot, img, slot)
		}
		b.volume = v
	case SlotPositions:
		p, ok := img.(PositionImage)
		if !ok {
			return fmt.Errorf("%w: %T at %v", ErrInvalidSlot, img, slot)
		}
		b.positions = p
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}
	return nil
}

// Unbind clears slot. Unknown slots are ignored.
func (b *Bindings) Unbind(slot Slot) {
	switch slot {
	case SlotVolume:
		b.volume = nil
	case SlotPositions:
		b.positions = nil
	}
}

// Bound returns both images or ErrUnboundImage.
func (b *Bindings) Bound() (VolumeImage, PositionImage, error) {
	if b.volume == nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnboundImage, SlotVolume)
	}
	if b.positions == nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnboundImage, SlotPositions)
	}
	return b.volume, b.positions, nil
}

// Reset unbinds every slot.
func (b *Bindings) Reset() {
	b.volume = nil
	b.positions = nil
}
