package testutils

import (
	. "github.com/onsi/gomega"
)

func Must[T any](o T, err error) T {
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return o
}

func Must2[T, U any](a T, b U, err error) (T, U) {
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return a, b
}

func MustBeSuccessful(err error) {
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

func MustFailWithMessage(err error, msg string) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	ExpectWithOffset(1, err.Error()).To(Equal(msg))
}
