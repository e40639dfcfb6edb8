package surface_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSurface(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Surface Suite")
}
