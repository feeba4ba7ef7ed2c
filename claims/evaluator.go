package claims

import (
	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
)

var logger = logging.Log()

// Result of evaluating the supplied claims of a ticket against the policies
// of a resource set.
type Result struct {
	Satisfied bool
	Matched   []model.ClaimRequirement
	Unmatched []model.ClaimRequirement
}

// Evaluate checks the supplied claims against the policies in order. The
// first policy whose requirements are all matched satisfies the request and
// its requirements are reported as matched. If no policy is fully matched,
// the unmatched requirements of all tried policies are accumulated, without
// deduplication, so the requesting party learns every way to gain access.
//
// A resource set without any policy is never satisfied: the owner configured
// no access path. A policy without required claims is trivially satisfied.
func Evaluate(policies []model.Policy, claimsSupplied []model.SuppliedClaim) Result {
	allUnmatched := []model.ClaimRequirement{}

	for _, policy := range policies {
		unmatched := unmatchedRequirements(policy.ClaimsRequired, claimsSupplied)
		if len(unmatched) == 0 {
			logger.Debugf("Policy %s is satisfied by the supplied claims.", policy.Id)
			return Result{Satisfied: true, Matched: policy.ClaimsRequired, Unmatched: []model.ClaimRequirement{}}
		}
		allUnmatched = append(allUnmatched, unmatched...)
	}
	return Result{Satisfied: false, Matched: []model.ClaimRequirement{}, Unmatched: allUnmatched}
}

// unmatchedRequirements returns the required claims that found no matching
// counterpart in the supplied claims.
func unmatchedRequirements(claimsRequired []model.ClaimRequirement, claimsSupplied []model.SuppliedClaim) []model.ClaimRequirement {
	unmatched := []model.ClaimRequirement{}
	for _, required := range claimsRequired {
		if !isMatched(required, claimsSupplied) {
			unmatched = append(unmatched, required)
		}
	}
	return unmatched
}

// isMatched reports if at least one supplied claim covers the requirement.
// A supplied claim matches when its issuer set is a superset of the required
// issuers and name and value are equal.
func isMatched(required model.ClaimRequirement, claimsSupplied []model.SuppliedClaim) bool {
	for _, supplied := range claimsSupplied {
		if required.Name != supplied.Name || required.Value != supplied.Value {
			continue
		}
		if containsAll(required.Issuer, supplied.Issuer) {
			return true
		}
	}
	return false
}

func containsAll(needles []string, haystack []string) bool {
	for _, needle := range needles {
		if !contains(haystack, needle) {
			return false
		}
	}
	return true
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
