//go:build !bucketdebug

package bucket

const debugChecks = false
