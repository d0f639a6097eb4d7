package succinct

// Polarity is a compile-time tag selecting which bit value a rank/select
// summary's block counts directly represent (spec §3, §9). It is carried
// as a type parameter rather than a struct field so that the "direct read
// vs. complementary subtraction" choice in the rank hot path is resolved
// per type instantiation instead of with a runtime branch.
//
// The only two polarity tags that exist are OptForOne and OptForZero;
// DontCare is a spec-mandated alias for OptForOne (§3: "Treat don't_care
// as equivalent to opt_for_one in all stored quantities"). Polarity is
// satisfied only by types in this package, so reimplementers cannot add a
// third storage convention.
type Polarity interface {
	// storesZero reports whether block summaries under this tag hold
	// counts of zero-bits (true) or one-bits (false).
	storesZero() bool
}

// OptForOne stores block counts as counts of 1-bits: rank_1 is the direct
// summary read and rank_0 is recovered as i - rank_1(i).
type OptForOne struct{}

func (OptForOne) storesZero() bool { return false }

// OptForZero stores block counts as counts of 0-bits: rank_0 is the direct
// summary read and rank_1 is recovered as i - rank_0(i).
type OptForZero struct{}

func (OptForZero) storesZero() bool { return true }

// DontCare is spec-equivalent to OptForOne (§3).
type DontCare = OptForOne
