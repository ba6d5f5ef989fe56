package testing

import (
	"os"

	. "github.com/onsi/gomega"
)

func ExpectSuccess[T any](t T, err error) T {
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return t
}

func SetTestEnv() {
	err := os.Setenv("ENVIRONMENT", "test")
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}
