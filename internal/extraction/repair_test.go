package extraction

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecoverFields", func() {
	When("the object sits between conversational prose", func() {
		response := "Here is what I found:\n" +
			`{"issuer":"Chase","card_last4":"9876","statement_date":"Jan 2024","due_date":"2024-02-10","total_balance":"1500.00","minimum_payment":"35.00"}` +
			"\nHope that helps!"

		It("recovers every field", func() {
			fields, err := RecoverFields(response)
			Expect(err).NotTo(HaveOccurred())
			Expect(fields.Issuer).To(Equal("Chase"))
			Expect(fields.CardLast4).To(Equal("9876"))
			Expect(fields.StatementDate).To(Equal("Jan 2024"))
			Expect(fields.DueDate).To(Equal("2024-02-10"))
			Expect(fields.TotalBalance).To(Equal("1500.00"))
			Expect(fields.MinimumPayment).To(Equal("35.00"))
		})
	})

	When("keys are missing or null", func() {
		It("substitutes the sentinel", func() {
			fields, err := RecoverFields(`{"issuer":"Citi","due_date":null}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(fields.Issuer).To(Equal("Citi"))
			Expect(fields.DueDate).To(Equal(NotFound))
			Expect(fields.CardLast4).To(Equal(NotFound))
			Expect(fields.MinimumPayment).To(Equal(NotFound))
		})
	})

	When("the model emits numbers instead of strings", func() {
		It("coerces them to their decimal form", func() {
			fields, err := RecoverFields(`{"card_last4":1234,"total_balance":500,"minimum_payment":25.5}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(fields.CardLast4).To(Equal("1234"))
			Expect(fields.TotalBalance).To(Equal("500"))
			Expect(fields.MinimumPayment).To(Equal("25.5"))
		})
	})

	When("the response holds no braces at all", func() {
		It("returns ErrNoJSONObject", func() {
			_, err := RecoverFields("Sorry, I cannot read this document.")
			Expect(errors.Is(err, ErrNoJSONObject)).To(BeTrue())
		})
	})

	When("the braces are reversed", func() {
		It("returns ErrNoJSONObject", func() {
			_, err := RecoverFields("} nothing here {")
			Expect(errors.Is(err, ErrNoJSONObject)).To(BeTrue())
		})
	})

	When("the brace-delimited substring is not valid JSON", func() {
		It("returns a decode error", func() {
			_, err := RecoverFields(`{"issuer": oops}`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("AI returned invalid JSON"))
			Expect(errors.Is(err, ErrNoJSONObject)).To(BeFalse())
		})
	})
})
