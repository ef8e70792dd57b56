package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tempDir creates a fresh scratch directory and returns its path. The
// directory is cleaned up after the test.
func tempDir() string {
	dir, err := os.MkdirTemp("", "witgo-test-*")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { os.RemoveAll(dir) })
	return dir
}

// witgo runs the witgo binary in the given directory and returns its
// combined stdout and stderr, trimmed.
func witgo(dir string, args ...string) (string, error) {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// witgoOK runs the witgo binary and expects success.
func witgoOK(dir string, args ...string) string {
	out, err := witgo(dir, args...)
	ExpectWithOffset(1, err).NotTo(HaveOccurred(), "witgo %s failed: %s", strings.Join(args, " "), out)
	return out
}

// writeFile creates a file with the given content, creating parent dirs as needed.
func writeFile(dir, name, content string) {
	p := filepath.Join(dir, name)
	err := os.MkdirAll(filepath.Dir(p), 0o755)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	err = os.WriteFile(p, []byte(content), 0o644)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

// writeFakeInstaller writes an executable shell script standing in for the
// installer binary, so e2e specs don't depend on a real WeiDU install.
func writeFakeInstaller(dir, name, script string) string {
	p := filepath.Join(dir, name)
	err := os.WriteFile(p, []byte(script), 0o755)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return p
}
