package paper

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
)

// Sink is an order sink that fills every intent instantly at its quoted price against
// a virtual account. It records each fill to the attached recorders.
type Sink struct {
	account   *Account
	log       zerolog.Logger
	recorders []FillRecorder
}

// NewSink wires a paper sink over the account and any number of fill recorders.
func NewSink(account *Account, log zerolog.Logger, recorders ...FillRecorder) *Sink {
	return &Sink{account: account, log: log, recorders: recorders}
}

// Submit simulates a fill for the intent. A rejected fill (cash or position limits)
// is returned as an error; the decision engine surfaces but does not retry it.
func (s *Sink) Submit(in execution.Intent) error {
	px, _ := in.Price.Float64()
	qty, _ := in.Size.Float64()
	if err := s.account.MarketFill(in.ProductID, in.Side, qty, px); err != nil {
		return fmt.Errorf("paper fill %s %s: %w", in.Side, in.ProductID, err)
	}

	fill := execution.Fill{
		ProductID: in.ProductID,
		Side:      in.Side,
		Price:     in.Price,
		Size:      in.Size,
		Ts:        in.EmittedAt,
	}
	for _, r := range s.recorders {
		r.Record(fill)
	}
	s.log.Info().
		Str("product", in.ProductID).
		Str("side", string(in.Side)).
		Str("px", in.Price.String()).
		Str("size", in.Size.String()).
		Float64("cash", s.account.AvailableCash()).
		Msg("paper fill")
	return nil
}
