package api

import (
	"fmt"
	"strings"

	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/ruteri/shamir-reconstruct/reconstruct"
)

// DecimalPlacesParam is the query parameter selecting the precision of
// SecretDecimal for fractional secrets.
const DecimalPlacesParam = "decimal_places"

// DefaultDecimalPlaces is used when no precision is requested.
const DefaultDecimalPlaces = 18

// ReconstructionProvider is implemented by anything that can run a
// reconstruction remotely, such as clients.ReconstructClient.
type ReconstructionProvider interface {
	Reconstruct(payload []byte) (*ReconstructResponse, error)
	ReconstructArchived(id interfaces.ContentID) (*ReconstructResponse, error)
}

// ReconstructResponse reports an accepted reconstruction.
type ReconstructResponse struct {
	// Secret is an integer, or "num/den" when the constant term does not reduce.
	Secret string `json:"secret"`

	// SecretDecimal is a rounded decimal rendering, only set for fractional secrets.
	SecretDecimal string `json:"secret_decimal,omitempty"`

	// Outlier is the label of the single inconsistent share, or "NONE".
	Outlier string `json:"outlier"`

	// Subset lists the labels of the shares the polynomial was built from.
	Subset []string `json:"subset"`

	// Coefficients of the accepted polynomial, lowest degree first.
	Coefficients []string `json:"coefficients"`

	// Candidates is how many subsets were examined up to and including the accepted one.
	Candidates int `json:"candidates"`

	Shares    int `json:"shares"`
	Threshold int `json:"threshold"`

	// PayloadID is the content id of the payload when it came from or went to the archive.
	PayloadID string `json:"payload_id,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// NewReconstructResponse renders a reconstruction result.
func NewReconstructResponse(res *reconstruct.Result, shares []interfaces.Share, k int, decimalPlaces int32) *ReconstructResponse {
	resp := &ReconstructResponse{
		Secret:       res.Secret.String(),
		Outlier:      res.OutlierLabel(),
		Subset:       make([]string, len(res.Subset)),
		Coefficients: res.Coefficients.Strings(),
		Candidates:   res.Candidates,
		Shares:       len(shares),
		Threshold:    k,
	}
	for i, idx := range res.Subset {
		resp.Subset[i] = shares[idx].Label.String()
	}
	if !res.Secret.IsInt() {
		resp.SecretDecimal = res.Secret.DecimalString(decimalPlaces)
	}
	return resp
}

// Text renders the two-line plain output: the secret, then the outlier label.
func (r *ReconstructResponse) Text() string {
	return r.Secret + "\n" + r.Outlier + "\n"
}

// Summary is a single line for logs and terminals.
func (r *ReconstructResponse) Summary() string {
	return fmt.Sprintf("secret=%s outlier=%s subset=[%s] candidates=%d",
		r.Secret, r.Outlier, strings.Join(r.Subset, ","), r.Candidates)
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
