package command

import (
	"context"
	"strconv"

	featuregate "github.com/goliatone/go-featuregate/gate"
)

const featureReconcilePrompt = "profiles.reconcile_prompt"

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, ownerID int64) (bool, error) {
	if gate == nil {
		return true, nil
	}
	if ownerID == 0 {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(featuregate.ScopeSet{
		System: true,
		UserID: strconv.FormatInt(ownerID, 10),
	}))
}
