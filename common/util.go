package common

import (
	"fmt"
	"os"
)

func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// ZeroBytes resets every byte of b in place.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Contains tells whether arr contains x.
func Contains(arr []int, x int) bool {
	for _, n := range arr {
		if x == n {
			return true
		}
	}
	return false
}

func Remove(files ...string) {
	for _, f := range files {
		os.Remove(f)
	}
}
