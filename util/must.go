package util

// Must unwraps a (value, error) pair, panicking on error. Reserved for
// initialization paths where failure means a programming mistake, such as
// compiling embedded schemas or static regular expressions.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
