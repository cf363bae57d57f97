package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"trainmate/internal/domain"
	"trainmate/internal/functions"
	"trainmate/internal/notify"
	"trainmate/internal/repository"

	"github.com/google/uuid"
)

var ErrClientHasNoEmail = errors.New("client has no email address")

// SharingService delivers a training plan to the client: a PDF rendered by the
// serverless function, attached to an email.
type SharingService interface {
	SendPlanByEmail(ctx context.Context, userID, planID uuid.UUID) error
	// PlanPDFURL renders the plan as a PDF and returns its download URL.
	PlanPDFURL(ctx context.Context, userID, planID uuid.UUID) (string, error)
}

type sharingService struct {
	planRepo   repository.TrainingPlanRepository
	clientRepo repository.ClientRepository
	functions  *functions.Client
	notifier   *notify.Service
}

// NewSharingService creates a new instance of sharingService.
func NewSharingService(planRepo repository.TrainingPlanRepository, clientRepo repository.ClientRepository, fns *functions.Client, notifier *notify.Service) SharingService {
	return &sharingService{
		planRepo:   planRepo,
		clientRepo: clientRepo,
		functions:  fns,
		notifier:   notifier,
	}
}

func (s *sharingService) PlanPDFURL(ctx context.Context, userID, planID uuid.UUID) (string, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return "", err
	}
	return s.functions.GeneratePlanPDF(ctx, planID)
}

// SendPlanByEmail emails the plan to its client with the rendered PDF
// attached.
func (s *sharingService) SendPlanByEmail(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return err
	}

	client, err := s.clientRepo.GetByID(ctx, plan.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.Email == "" {
		return ErrClientHasNoEmail
	}

	pdfURL, err := s.functions.GeneratePlanPDF(ctx, planID)
	if err != nil {
		log.Printf("ERROR: render pdf for plan %s: %v", planID, err)
		s.notifier.Error("Errore", "Impossibile generare il PDF del piano.")
		return err
	}

	err = s.functions.SendEmail(ctx, functions.EmailRequest{
		To:            client.Email,
		Subject:       fmt.Sprintf("Il tuo piano di allenamento: %s", plan.Name),
		HTML:          planEmailBody(client, plan),
		AttachmentURL: pdfURL,
	})
	if err != nil {
		log.Printf("ERROR: email plan %s to %s: %v", planID, client.Email, err)
		s.notifier.Error("Errore", "Impossibile inviare il piano via email.")
		return err
	}
	return nil
}

func (s *sharingService) ownedPlan(ctx context.Context, userID, planID uuid.UUID) (*domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// planEmailBody renders a plain HTML summary of the plan, one section per
// group. The full layout lives in the attached PDF; this is just the preview.
func planEmailBody(client *domain.Client, plan *domain.TrainingPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Ciao %s,</p>", html.EscapeString(client.Name))
	fmt.Fprintf(&b, "<p>ecco il tuo nuovo piano di allenamento: <strong>%s</strong></p>", html.EscapeString(plan.Name))
	if plan.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(plan.Description))
	}

	for _, group := range plan.Content().Groups {
		fmt.Fprintf(&b, "<h3>%s</h3><ul>", html.EscapeString(group.Title))
		for _, ex := range group.Exercises {
			fmt.Fprintf(&b, "<li>%s: %d x %s</li>",
				html.EscapeString(ex.Name), ex.Sets, html.EscapeString(ex.Reps))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<p>Trovi il piano completo in allegato.</p>")
	return b.String()
}
