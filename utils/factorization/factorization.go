// Package factorization provides the small number-theoretic helpers needed
// to find a primitive root modulo a prime: primality testing and prime
// factorization of q-1.
package factorization

import "math/big"

// IsPrime returns true if n is prime, using math/big's Miller-Rabin test
// with a negligible error probability.
func IsPrime(n *big.Int) bool {
	return n.ProbablyPrime(32)
}

// GetFactors returns the distinct prime factors of n.
func GetFactors(n *big.Int) (factors []*big.Int) {

	m := new(big.Int).Set(n)

	if m.Bit(0) == 0 {
		factors = append(factors, big.NewInt(2))
		for m.Bit(0) == 0 {
			m.Rsh(m, 1)
		}
	}

	for m.Cmp(big.NewInt(1)) > 0 {

		if IsPrime(m) {
			factors = appendDistinct(factors, m)
			break
		}

		d := findFactor(m)

		factors = appendDistinct(factors, d)

		q := new(big.Int).Div(m, d)
		for new(big.Int).Mod(m, d).Sign() == 0 {
			m = q
			q = new(big.Int).Div(m, d)
		}
	}

	return
}

func appendDistinct(factors []*big.Int, d *big.Int) []*big.Int {
	for _, f := range factors {
		if f.Cmp(d) == 0 {
			return factors
		}
	}
	return append(factors, new(big.Int).Set(d))
}

// findFactor returns a non-trivial factor of the composite m, using trial
// division against small primes followed by Pollard's rho.
func findFactor(m *big.Int) *big.Int {

	for _, p := range smallPrimes {
		bp := big.NewInt(int64(p))
		if new(big.Int).Mod(m, bp).Sign() == 0 {
			return bp
		}
	}

	return GetFactorPollardRho(m)
}

var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}

// GetFactorPollardRho returns a single non-trivial factor of the composite n
// using Pollard's rho algorithm with Brent's cycle detection.
func GetFactorPollardRho(n *big.Int) *big.Int {

	if n.Bit(0) == 0 {
		return big.NewInt(2)
	}

	one := big.NewInt(1)

	x := big.NewInt(2)
	y := big.NewInt(2)
	c := big.NewInt(1)
	d := big.NewInt(1)

	f := func(v *big.Int) *big.Int {
		r := new(big.Int).Mul(v, v)
		r.Add(r, c)
		r.Mod(r, n)
		return r
	}

	for attempt := int64(1); attempt < 64 && d.Cmp(one) == 0; attempt++ {
		x.SetInt64(2)
		y.SetInt64(2)
		c.SetInt64(attempt)
		d.SetInt64(1)

		for d.Cmp(one) == 0 {
			x = f(x)
			y = f(f(y))

			diff := new(big.Int).Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				d.Set(n)
				break
			}
			d.GCD(nil, nil, diff, n)
		}

		if d.Cmp(n) == 0 {
			d.SetInt64(1)
		}
	}

	if d.Cmp(one) == 0 {
		// Sanity check: n composite implies Pollard's rho finds a factor
		// with overwhelming probability within the attempt budget above.
		panic("factorization: Pollard's rho failed to split composite")
	}

	return d
}

// GetFactorECM exists for parity with the call sites that probe multiple
// factoring strategies; it delegates to Pollard's rho since elliptic-curve
// factoring offers no practical benefit at the 60-bit scale used for NTT
// primes here.
func GetFactorECM(n *big.Int) *big.Int {
	return GetFactorPollardRho(n)
}
