package philox

// Stream is the input of one generator call: a key and the index of the
// first block the call may consume.
//
// Layout: block b of the call uses counter Offset+b. A block yields four
// words. uint32 and float32 outputs take one word per element (element i
// lives in block i/4, word i%4); float64 outputs take two words (element i
// lives in block i/2, words 2*(i%2) and 2*(i%2)+1). Normal outputs pair the
// values of a block through Box-Muller, the first value of each pair mapped
// to the open interval (0, 1).
type Stream struct {
	Key    Key
	Offset uint64
}

// ValuesPerBlock returns how many elements of elemSize bytes one block yields.
func ValuesPerBlock(elemSize int) int {
	if elemSize == 8 {
		return WordsPerBlock / 2
	}
	return WordsPerBlock
}

// Blocks returns the number of blocks n elements of elemSize bytes consume.
func Blocks(n, elemSize int) int {
	per := ValuesPerBlock(elemSize)
	return (n + per - 1) / per
}

func (s Stream) block(b int) [WordsPerBlock]uint32 {
	return Philox4x32(CounterAt(s.Offset+uint64(b)), s.Key)
}

// FillUint32 writes blocks [bs, be) as raw words.
func (s Stream) FillUint32(dst []uint32, bs, be int) {
	for b := bs; b < be; b++ {
		w := s.block(b)
		base := b * WordsPerBlock
		for j := 0; j < WordsPerBlock && base+j < len(dst); j++ {
			dst[base+j] = w[j]
		}
	}
}

// FillUniform32 writes blocks [bs, be) as values in [lower, upper).
func (s Stream) FillUniform32(dst []float32, lower, upper float32, bs, be int) {
	for b := bs; b < be; b++ {
		w := s.block(b)
		base := b * WordsPerBlock
		for j := 0; j < WordsPerBlock && base+j < len(dst); j++ {
			dst[base+j] = ScaleUniform32(Unit32(w[j]), lower, upper)
		}
	}
}

// FillUniform64 writes blocks [bs, be) as values in [lower, upper).
func (s Stream) FillUniform64(dst []float64, lower, upper float64, bs, be int) {
	for b := bs; b < be; b++ {
		w := s.block(b)
		base := b * 2
		if base < len(dst) {
			dst[base] = ScaleUniform64(Unit64(w[0], w[1]), lower, upper)
		}
		if base+1 < len(dst) {
			dst[base+1] = ScaleUniform64(Unit64(w[2], w[3]), lower, upper)
		}
	}
}

// FillNormal32 writes blocks [bs, be) as N(mu, sigma^2) values.
func (s Stream) FillNormal32(dst []float32, mu, sigma float32, bs, be int) {
	for b := bs; b < be; b++ {
		w := s.block(b)
		z0, z1 := BoxMuller(float64(OpenUnit32(w[0])), float64(Unit32(w[1])))
		z2, z3 := BoxMuller(float64(OpenUnit32(w[2])), float64(Unit32(w[3])))
		base := b * WordsPerBlock
		for j, z := range [WordsPerBlock]float64{z0, z1, z2, z3} {
			if base+j >= len(dst) {
				break
			}
			dst[base+j] = mu + sigma*float32(z)
		}
	}
}

// FillNormal64 writes blocks [bs, be) as N(mu, sigma^2) values.
func (s Stream) FillNormal64(dst []float64, mu, sigma float64, bs, be int) {
	for b := bs; b < be; b++ {
		w := s.block(b)
		z0, z1 := BoxMuller(OpenUnit64(w[0], w[1]), Unit64(w[2], w[3]))
		base := b * 2
		if base < len(dst) {
			dst[base] = mu + sigma*z0
		}
		if base+1 < len(dst) {
			dst[base+1] = mu + sigma*z1
		}
	}
}
