package fieldhash

const (
	mbig  = 1<<31 - 1
	mseed = 161803398
)

// generator is the classic subtractive random number generator (Knuth,
// TAOCP vol. 2, 3.6) with a 55-element lag table.
type generator struct {
	state         [56]int32
	inext, inextp int
}

func newGenerator(seed int32) *generator {
	g := &generator{inextp: 21}
	sub := seed
	if sub < 0 {
		sub = -sub
	}
	mj := (mseed - sub) % mbig
	if mj < 0 {
		mj += mbig
	}
	g.state[55] = mj
	mk := int32(1)
	for i := 1; i < 55; i++ {
		ii := (21 * i) % 55
		g.state[ii] = mk
		mk = mj - mk
		if mk < 0 {
			mk += mbig
		}
		mj = g.state[ii]
	}
	for k := 1; k < 5; k++ {
		for i := 1; i < 56; i++ {
			g.state[i] -= g.state[1+(i+30)%55]
			if g.state[i] < 0 {
				g.state[i] += mbig
			}
		}
	}
	return g
}

func (g *generator) sample() int32 {
	g.inext++
	if g.inext >= 56 {
		g.inext = 1
	}
	g.inextp++
	if g.inextp >= 56 {
		g.inextp = 1
	}
	ret := g.state[g.inext] - g.state[g.inextp]
	if ret == mbig {
		ret--
	}
	if ret < 0 {
		ret += mbig
	}
	g.state[g.inext] = ret
	return ret
}

// next24 draws a value in [0, 2^24).
func (g *generator) next24() uint64 {
	f := float64(g.sample()) * (1.0 / mbig)
	return uint64(f * (1 << 24))
}
