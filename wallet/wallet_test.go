package wallet

import (
	"testing"

	"wayfare/apperr"
	"wayfare/models"
)

func TestValidateTransfer(t *testing.T) {
	cases := []struct {
		name string
		req  models.TransferRequest
		want apperr.Kind
	}{
		{"valid", models.TransferRequest{ToEmail: "ana@example.com", Amount: 50}, apperr.KindUnknown},
		{"missing email", models.TransferRequest{Amount: 50}, apperr.KindValidation},
		{"malformed email", models.TransferRequest{ToEmail: "not-an-email", Amount: 50}, apperr.KindValidation},
		{"email with spaces", models.TransferRequest{ToEmail: "a b@example.com", Amount: 50}, apperr.KindValidation},
		{"zero amount", models.TransferRequest{ToEmail: "ana@example.com"}, apperr.KindValidation},
		{"negative amount", models.TransferRequest{ToEmail: "ana@example.com", Amount: -1}, apperr.KindValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransfer(tc.req)
			if tc.want == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("ValidateTransfer: %v", err)
				}
				return
			}
			if apperr.KindOf(err) != tc.want {
				t.Errorf("kind = %v, want %v", apperr.KindOf(err), tc.want)
			}
		})
	}
}
