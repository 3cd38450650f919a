//go:build bucketdebug

package bucket

// debugChecks gates the contract-violation panics in UpdateRow and
// FindUpperBound. Enabled with the bucketdebug build tag.
const debugChecks = true
