package models

import "time"

// Account is a user's wallet.
type Account struct {
	UserID        string    `json:"userId" bson:"userid"`
	Email         string    `json:"email" bson:"email"`
	CachedBalance float64   `json:"balance" bson:"cached_balance"`
	Currency      string    `json:"currency" bson:"currency"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// Transaction is one wallet ledger entry.
type Transaction struct {
	TxnID     string    `json:"txnId" bson:"txnid"`
	UserID    string    `json:"userId" bson:"userid"`
	Type      string    `json:"type" bson:"type"` // credit | debit | transfer
	Amount    float64   `json:"amount" bson:"amount"`
	Peer      string    `json:"peer,omitempty" bson:"peer,omitempty"` // counterparty email
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// TransferRequest moves funds to another wallet by email.
type TransferRequest struct {
	ToEmail string  `json:"toEmail"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note"`
}
