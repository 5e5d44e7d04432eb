package timeline

import (
	"context"
	"log"
	"math"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"wayfare/apperr"
	"wayfare/rdx"
	"wayfare/utils"
)

const shareTTL = 7 * 24 * time.Hour

// SharePlanner issues an opaque share token for a planner. The token is
// cached in Redis so a join link can outlive this process, best effort.
func (m *Manager) SharePlanner(ctx context.Context, plannerID string) (string, error) {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return "", err
	}

	token := utils.GenerateRandomString(21)
	if err := rdx.Conn.Set(ctx, "planner:share:"+token, p.PlannerID, shareTTL).Err(); err != nil {
		log.Println("SharePlanner cache error:", err)
	}
	return token, nil
}

// JoinSharedPlanner accepts a share token. Collaborative planners are not
// built yet; any non-empty token is accepted.
func (m *Manager) JoinSharedPlanner(ctx context.Context, token string) error {
	if token == "" {
		return apperr.Validation("share token required")
	}
	return nil
}

// ShareQR renders the join link for a token as a PNG.
func ShareQR(token, baseURL string) ([]byte, error) {
	if token == "" {
		return nil, apperr.Validation("share token required")
	}
	return qrcode.Encode(baseURL+"/join/"+token, qrcode.Medium, 256)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
