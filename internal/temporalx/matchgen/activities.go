package matchgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type Activities struct {
	Log      *logger.Logger
	Matching services.MatchingService
}

// Generate runs the matching pipeline for one requester and persists the
// resulting introductions. Validation and not-found failures are not retried.
func (a *Activities) Generate(ctx context.Context, in Input) (Result, error) {
	res := Result{UserID: strings.TrimSpace(in.UserID), CreatedIDs: []string{}}
	if a == nil || a.Matching == nil {
		return res, temporal.NewNonRetryableApplicationError("matchgen: activity not configured", "config", nil)
	}
	userID, err := uuid.Parse(res.UserID)
	if err != nil || userID == uuid.Nil {
		return res, temporal.NewNonRetryableApplicationError(fmt.Sprintf("matchgen: invalid user_id %q", in.UserID), string(apperr.CodeValidation), err)
	}

	out, err := a.Matching.Generate(ctx, userID, in.MaxMatches)
	if err != nil {
		code := apperr.CodeOf(err)
		if code == apperr.CodeValidation || code == apperr.CodeNotFound {
			return res, temporal.NewNonRetryableApplicationError(err.Error(), string(code), err)
		}
		return res, err
	}

	res.Suggested = len(out.Suggestions)
	res.Skipped = out.Skipped
	for _, rec := range out.Created {
		res.CreatedIDs = append(res.CreatedIDs, rec.ID.String())
	}
	if a.Log != nil {
		a.Log.Info("match generation activity done", "user_id", userID, "created", len(res.CreatedIDs), "skipped", res.Skipped)
	}
	return res, nil
}
