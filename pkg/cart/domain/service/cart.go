package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/cart/domain/model"
	"storefront/pkg/common/domain"
	"storefront/pkg/pricing"
)

// CartService holds an ordered line list for one cart key, keeps the
// unit-price invariant through the resolver, and writes the full cart
// through to the repository after every mutation.
type CartService interface {
	AddLine(ctx context.Context, candidate model.Line) (model.Line, error)
	RemoveLine(ctx context.Context, productID int, color, size string) error
	Clear(ctx context.Context) error
	Lines() []model.Line
	Quantity(key model.LineKey) int
	TotalItems() int
	TotalPrice() decimal.Decimal
}

// OpenCart restores a cart from the repository, or starts empty. A corrupt
// payload is discarded, never propagated: the cart must come up regardless
// of what was persisted. Restored lines are re-priced so the invariant
// holds even if the payload predates a schedule change.
func OpenCart(ctx context.Context, repo model.Repository, key string, dispatcher domain.EventDispatcher) (CartService, error) {
	raw, ok, err := repo.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	var lines []model.Line
	if ok {
		if err := json.Unmarshal(raw, &lines); err != nil {
			log.WithFields(log.Fields{"cart": key, "err": err}).Warn("discarding corrupt persisted cart")
			lines = nil
		}
	}
	for i := range lines {
		lines[i] = lines[i].Reprice()
	}

	return &cartService{repo: repo, key: key, dispatcher: dispatcher, lines: lines}, nil
}

type cartService struct {
	repo       model.Repository
	key        string
	dispatcher domain.EventDispatcher
	lines      []model.Line
}

func (s *cartService) AddLine(ctx context.Context, candidate model.Line) (model.Line, error) {
	if candidate.Quantity < 0 {
		candidate.Quantity = 0
	}

	index := s.indexOf(candidate.Key())
	newQuantity := candidate.Quantity
	if index != -1 {
		newQuantity += s.lines[index].Quantity
	}

	candidate.Quantity = newQuantity
	candidate.UnitPrice = pricing.Resolve(candidate.BasePrice, candidate.PriceBreaks, newQuantity).UnitPrice

	updated := s.copyLines()
	if index != -1 {
		updated[index] = candidate
	} else {
		updated = append(updated, candidate)
	}

	if err := s.persist(ctx, updated); err != nil {
		return model.Line{}, err
	}
	s.lines = updated

	s.dispatch(model.LineAdded{
		CartKey:  s.key,
		Line:     candidate.Key(),
		Quantity: newQuantity,
		Merged:   index != -1,
	})
	return candidate, nil
}

func (s *cartService) RemoveLine(ctx context.Context, productID int, color, size string) error {
	key := model.LineKey{ProductID: productID, Color: color, Size: size}
	index := s.indexOf(key)
	if index == -1 {
		return nil
	}

	updated := s.copyLines()
	updated = append(updated[:index], updated[index+1:]...)

	if err := s.persist(ctx, updated); err != nil {
		return err
	}
	s.lines = updated

	s.dispatch(model.LineRemoved{CartKey: s.key, Line: key})
	return nil
}

func (s *cartService) Clear(ctx context.Context) error {
	if err := s.persist(ctx, []model.Line{}); err != nil {
		return err
	}
	s.lines = nil

	s.dispatch(model.CartCleared{CartKey: s.key})
	return nil
}

func (s *cartService) Lines() []model.Line {
	return s.copyLines()
}

func (s *cartService) Quantity(key model.LineKey) int {
	if index := s.indexOf(key); index != -1 {
		return s.lines[index].Quantity
	}
	return 0
}

func (s *cartService) TotalItems() int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

func (s *cartService) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Total())
	}
	return total
}

func (s *cartService) indexOf(key model.LineKey) int {
	for i, line := range s.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

func (s *cartService) copyLines() []model.Line {
	out := make([]model.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// persist writes the candidate state before the in-memory cart advances, so
// a failed write leaves the cart unchanged.
func (s *cartService) persist(ctx context.Context, lines []model.Line) error {
	if lines == nil {
		lines = []model.Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, s.key, raw)
}

func (s *cartService) dispatch(event domain.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(event); err != nil {
		log.WithFields(log.Fields{"event": event.Type(), "err": err}).Error("failed to dispatch event")
	}
}
