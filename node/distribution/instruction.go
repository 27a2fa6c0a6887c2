package distribution

import (
	"encoding/json"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/node/reward"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const completionPrecision = 6

type transferInput struct {
	Function string `json:"function"`
	Target   string `json:"target"`
	Qty      int64  `json:"qty"`
}

// BuildInstruction turns a payout into a contract transfer carrying the
// cannon metadata tags.
func BuildInstruction(
	token config.TokenConfig,
	kind reward.CurveKind,
	completion decimal.Decimal,
	payout tdistribution.Payout,
) (tdistribution.TransferInstruction, error) {
	input, err := json.Marshal(transferInput{
		Function: "transfer",
		Target:   payout.Recipient,
		Qty:      payout.Quantity,
	})
	if err != nil {
		return tdistribution.TransferInstruction{},
			errors.Wrap(err, "build instruction")
	}

	return tdistribution.TransferInstruction{
		Target:   payout.Recipient,
		Quantity: payout.Quantity,
		Tags: []tdistribution.Tag{
			{Name: "Cannon", Value: token.CannonName},
			{Name: "Function", Value: string(kind)},
			{Name: "Completion", Value: completion.StringFixed(completionPrecision)},
			{Name: "Contract", Value: token.ContractID},
			{Name: "App-Name", Value: token.AppName},
			{Name: "App-Version", Value: token.AppVersion},
			{Name: "Input", Value: string(input)},
		},
	}, nil
}
