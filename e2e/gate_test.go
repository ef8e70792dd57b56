package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("witgo gate", func() {
	var dir string

	BeforeEach(func() {
		dir = tempDir()
	})

	It("reports a fingerprint and allow-listed: false with no allow-list configured", func() {
		fake := writeFakeInstaller(dir, "fake-weidu", "#!/bin/sh\necho 'WeiDU version 247'\n")
		out := witgoOK(dir, "gate", fake)
		Expect(out).To(ContainSubstring("sha256:"))
		Expect(out).To(ContainSubstring("allow-listed: false"))
	})

	It("fails closed with --strict when the binary is not allow-listed", func() {
		fake := writeFakeInstaller(dir, "fake-weidu", "#!/bin/sh\necho 'WeiDU version 247'\n")
		_, err := witgo(dir, "gate", "--strict", fake)
		Expect(err).To(HaveOccurred())
	})
})
