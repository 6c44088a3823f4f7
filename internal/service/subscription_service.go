package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"subtrack/internal/domain"
	"subtrack/internal/repository"
)

// SubscriptionService traduce entre la representación de wire y la
// persistida, y aplica las reglas de pertenencia sobre cada operación.
type SubscriptionService struct {
	subs repository.SubscriptionRepository
}

func NewSubscriptionService(subs repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// SubscriptionInput es la representación de wire de una suscripción entrante.
type SubscriptionInput struct {
	Name           string  `json:"name"`
	DateStarted    string  `json:"date_started"`
	PriceInDollars float64 `json:"price_in_dollars"`
	Recurs         bool    `json:"recurs"`
}

// SubscriptionView es la proyección de salida: omite id y user_id a
// propósito, el listado no sirve para editar ni borrar por id.
type SubscriptionView struct {
	Name           string  `json:"name"`
	DateStarted    string  `json:"date_started"`
	PriceInDollars float64 `json:"price_in_dollars"`
	Recurs         bool    `json:"recurs"`
}

var (
	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotOwner             = errors.New("subscription owned by another user")
)

const dateLayout = "2006-01-02"

// toRecord valida la entrada y fija la pertenencia a la identidad
// autenticada; nunca a un valor enviado por el cliente.
func toRecord(input SubscriptionInput, owner Principal) (domain.Subscription, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Subscription{}, fmt.Errorf("%w: name is required", ErrInvalidSubscription)
	}
	started, err := time.Parse(dateLayout, strings.TrimSpace(input.DateStarted))
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("%w: date_started must be YYYY-MM-DD", ErrInvalidSubscription)
	}
	if input.PriceInDollars < 0 {
		return domain.Subscription{}, fmt.Errorf("%w: price_in_dollars must be >= 0", ErrInvalidSubscription)
	}
	return domain.Subscription{
		UserID:         owner.ID,
		Name:           name,
		DateStarted:    started,
		PriceInDollars: input.PriceInDollars,
		Recurs:         input.Recurs,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func toView(sub domain.Subscription) SubscriptionView {
	return SubscriptionView{
		Name:           sub.Name,
		DateStarted:    sub.DateStarted.Format(dateLayout),
		PriceInDollars: sub.PriceInDollars,
		Recurs:         sub.Recurs,
	}
}

// Add traduce y persiste una suscripción del principal autenticado.
func (s *SubscriptionService) Add(ctx context.Context, owner Principal, input SubscriptionInput) error {
	record, err := toRecord(input, owner)
	if err != nil {
		return err
	}
	_, err = s.subs.Create(ctx, record)
	return err
}

// List devuelve las suscripciones del principal, orden determinado por el
// store (date_started, id). Slice vacío si no hay ninguna.
func (s *SubscriptionService) List(ctx context.Context, owner Principal) ([]SubscriptionView, error) {
	records, err := s.subs.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	views := make([]SubscriptionView, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return views, nil
}

// Edit reemplaza por completo la suscripción id, verificando antes que
// pertenezca al principal.
func (s *SubscriptionService) Edit(ctx context.Context, owner Principal, id int64, input SubscriptionInput) error {
	existing, err := s.ownedByID(ctx, owner, id)
	if err != nil {
		return err
	}
	record, err := toRecord(input, owner)
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	if err := s.subs.Update(ctx, record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

// Delete elimina la suscripción id si pertenece al principal.
func (s *SubscriptionService) Delete(ctx context.Context, owner Principal, id int64) error {
	if _, err := s.ownedByID(ctx, owner, id); err != nil {
		return err
	}
	if err := s.subs.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *SubscriptionService) ownedByID(ctx context.Context, owner Principal, id int64) (domain.Subscription, error) {
	existing, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, ErrSubscriptionNotFound
		}
		return domain.Subscription{}, err
	}
	if existing.UserID != owner.ID {
		return domain.Subscription{}, ErrNotOwner
	}
	return existing, nil
}
