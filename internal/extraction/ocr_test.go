package extraction

import (
	"context"
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubRunner records the command it was asked to run and captures the temp
// image content before Recognize removes it.
type stubRunner struct {
	stdout  []byte
	stderr  []byte
	err     error
	name    string
	args    []string
	imgData []byte
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.name = name
	r.args = args
	if len(args) > 0 {
		r.imgData, _ = os.ReadFile(args[0])
	}
	return r.stdout, r.stderr, r.err
}

var _ = Describe("Tesseract", func() {
	var runner *stubRunner

	BeforeEach(func() {
		runner = &stubRunner{stdout: []byte("Recognized statement text\n")}
	})

	It("invokes the binary with the image file, stdout sink and language", func() {
		t := NewTesseractWithRunner("tesseract", "eng", runner)
		text, err := t.Recognize(context.Background(), []byte("png-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Recognized statement text\n"))

		Expect(runner.name).To(Equal("tesseract"))
		Expect(runner.args).To(HaveLen(4))
		Expect(runner.args[1:]).To(Equal([]string{"stdout", "-l", "eng"}))
		Expect(runner.imgData).To(Equal([]byte("png-bytes")))
	})

	It("defaults the binary and language when unset", func() {
		t := NewTesseractWithRunner("", "", runner)
		_, err := t.Recognize(context.Background(), []byte("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.name).To(Equal("tesseract"))
		Expect(runner.args[3]).To(Equal("eng"))
	})

	It("surfaces stderr when the binary fails", func() {
		runner.err = errors.New("exit status 1")
		runner.stderr = []byte("Error opening data file eng.traineddata\n")
		t := NewTesseractWithRunner("tesseract", "eng", runner)
		_, err := t.Recognize(context.Background(), []byte("x"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("eng.traineddata"))
		Expect(err.Error()).To(ContainSubstring("exit status 1"))
	})
})
