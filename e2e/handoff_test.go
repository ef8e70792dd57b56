package e2e_test

import (
	"os/exec"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("single-instance hand-off", func() {
	var dir string

	BeforeEach(func() {
		dir = tempDir()
	})

	It("hands a bare .tp2 argv off to a running witgo serve instance", func() {
		srv := exec.Command(binaryPath, "serve")
		srv.Dir = dir
		Expect(srv.Start()).To(Succeed())
		defer srv.Process.Kill()

		// Give the server a moment to bind its loopback listener.
		time.Sleep(200 * time.Millisecond)

		out, err := witgo(dir, "setup-mymod.tp2")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("instance"))
	})

	It("falls through to a local message when no instance is listening", func() {
		out, err := witgo(dir, "setup-mymod.tp2")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("no running instance found"))
	})
})
