package extraction

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildPrompt", func() {
	It("appends the statement text after the instruction", func() {
		prompt := BuildPrompt("HSBC statement body")
		Expect(prompt).To(HavePrefix(promptHeader))
		Expect(prompt).To(HaveSuffix("HSBC statement body"))
	})

	It("names all six keys and the sentinel", func() {
		prompt := BuildPrompt("")
		for _, key := range []string{"issuer", "card_last4", "statement_date", "due_date", "total_balance", "minimum_payment"} {
			Expect(prompt).To(ContainSubstring(key))
		}
		Expect(prompt).To(ContainSubstring(NotFound))
	})

	It("truncates oversized text to the limit", func() {
		prompt := BuildPrompt(strings.Repeat("a", promptTextLimit+1))
		Expect(prompt).To(HaveLen(len(promptHeader) + promptTextLimit))
	})

	It("leaves text at the limit untouched", func() {
		text := strings.Repeat("b", promptTextLimit)
		Expect(BuildPrompt(text)).To(Equal(promptHeader + text))
	})
})
