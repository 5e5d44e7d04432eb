// Package wallet handles balances, transfers, and the transaction ledger.
package wallet

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wayfare/apperr"
	"wayfare/db"
	"wayfare/models"
	"wayfare/rdx"
	"wayfare/utils"
)

// lockTTL defines the duration to hold the Redis lock per user
const lockTTL = 5 * time.Second

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service handles all wallet ops.
type Service struct {
	rdx *redis.Client
}

func NewService() *Service {
	return &Service{rdx: rdx.Conn}
}

// ValidateTransfer runs the proactive checks that must pass before any
// network write: well-formed recipient email and a positive amount.
func ValidateTransfer(req models.TransferRequest) error {
	if !emailRe.MatchString(req.ToEmail) {
		return apperr.Validation("recipient email is not valid")
	}
	if req.Amount <= 0 {
		return apperr.Validation("amount must be positive")
	}
	return nil
}

// GetBalance returns the user's wallet balance.
func (s *Service) GetBalance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var acc models.Account
	err := db.AccountsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&acc)
	if err != nil {
		log.Printf("GetBalance: account not found for user %s, err=%v", userID, err)
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"balance": acc.CachedBalance, "currency": acc.Currency})
}

// Transfer moves funds to another wallet by email. Validation failures
// are reported before any write; insufficient funds is checked under the
// per-user lock.
func (s *Service) Transfer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var req models.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := ValidateTransfer(req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	// Per-user lock so two transfers cannot race the balance check.
	acquired, err := s.rdx.SetNX(ctx, "wallet_lock:"+userID, "1", lockTTL).Result()
	if err != nil || !acquired {
		http.Error(w, "please retry", http.StatusTooManyRequests)
		return
	}
	defer s.rdx.Del(ctx, "wallet_lock:"+userID)

	var sender models.Account
	if err := db.AccountsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&sender); err != nil {
		utils.RespondWithAppError(w, apperr.NotFound("account not found"))
		return
	}
	if sender.CachedBalance < req.Amount {
		utils.RespondWithAppError(w, apperr.Validation("insufficient funds"))
		return
	}

	var recipient models.Account
	if err := db.AccountsCollection.FindOne(ctx, bson.M{"email": req.ToEmail}).Decode(&recipient); err != nil {
		utils.RespondWithAppError(w, apperr.NotFound("recipient not found"))
		return
	}
	if recipient.UserID == userID {
		utils.RespondWithAppError(w, apperr.Validation("cannot transfer to yourself"))
		return
	}

	now := time.Now()
	if _, err := db.AccountsCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{
		"$inc": bson.M{"cached_balance": -req.Amount},
		"$set": bson.M{"updated_at": now},
	}); err != nil {
		http.Error(w, "transfer failed", http.StatusInternalServerError)
		return
	}
	if _, err := db.AccountsCollection.UpdateOne(ctx, bson.M{"userid": recipient.UserID}, bson.M{
		"$inc": bson.M{"cached_balance": req.Amount},
		"$set": bson.M{"updated_at": now},
	}); err != nil {
		// Put the debit back; best effort.
		_, _ = db.AccountsCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{
			"$inc": bson.M{"cached_balance": req.Amount},
		})
		http.Error(w, "transfer failed", http.StatusInternalServerError)
		return
	}

	s.recordTxn(ctx, models.Transaction{
		TxnID: utils.GetUUID(), UserID: userID, Type: "debit",
		Amount: req.Amount, Peer: req.ToEmail, Note: req.Note, CreatedAt: now,
	})
	s.recordTxn(ctx, models.Transaction{
		TxnID: utils.GetUUID(), UserID: recipient.UserID, Type: "credit",
		Amount: req.Amount, Peer: sender.Email, Note: req.Note, CreatedAt: now,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (s *Service) recordTxn(ctx context.Context, txn models.Transaction) {
	if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
		log.Printf("recordTxn: insert failed for user %s, err=%v", txn.UserID, err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ListTransactions returns paginated wallet transactions for the logged-in user
func (s *Service) ListTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cur, err := db.TransactionCollection.Find(ctx, bson.M{"userid": userID}, findOptions)
	if err != nil {
		log.Printf("ListTransactions: DB error for user %s, err=%v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var txns []models.Transaction
	if err = cur.All(ctx, &txns); err != nil {
		log.Printf("ListTransactions: decode error for user %s, err=%v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"transactions": txns})
}
