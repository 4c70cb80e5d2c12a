package qoi

import "image/color"

// cache holds the most recently seen pixel for each hash slot. The zero
// value, every slot transparent black, is the required starting state.
type cache [cacheSize]color.NRGBA

// hash relies on uint8 wraparound; 64 divides 256 so the result matches
// the same sum computed without overflow.
func hash(px color.NRGBA) uint8 {
	return (px.R*3 + px.G*5 + px.B*7 + px.A*11) % cacheSize
}

func (c *cache) lookup(i uint8) color.NRGBA {
	return c[i]
}

func (c *cache) store(i uint8, px color.NRGBA) {
	c[i] = px
}
