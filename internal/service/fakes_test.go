package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/mail"
	"github.com/spec-kit/awards-service/internal/payment"
	"github.com/spec-kit/awards-service/internal/repository"
	"github.com/spec-kit/awards-service/internal/tracker"
)

type fakeCaseRepo struct {
	cases        map[int]*domain.Case
	updateCalls  int
	lastStatus   domain.CaseStatus
	lastReviewer string
	updateErr    error
}

func newFakeCaseRepo(cases ...*domain.Case) *fakeCaseRepo {
	repo := &fakeCaseRepo{cases: map[int]*domain.Case{}}
	for _, c := range cases {
		if c.ExternalIssueNumber != nil {
			repo.cases[*c.ExternalIssueNumber] = c
		}
	}
	return repo
}

func (r *fakeCaseRepo) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	for _, c := range r.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCaseRepo) GetByIssueNumber(ctx context.Context, issueNumber int) (*domain.Case, error) {
	if c, ok := r.cases[issueNumber]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCaseRepo) UpdateStatus(ctx context.Context, id string, status domain.CaseStatus, reviewedAt time.Time, reviewedBy string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updateCalls++
	r.lastStatus = status
	r.lastReviewer = reviewedBy
	for _, c := range r.cases {
		if c.ID == id {
			c.Status = status
			c.ReviewedAt = &reviewedAt
			c.ReviewedBy = &reviewedBy
		}
	}
	return nil
}

func (r *fakeCaseRepo) LinkIssue(ctx context.Context, id string, issueNumber int) error {
	return nil
}

type fakeTicketRepo struct {
	tickets      map[string]*domain.Ticket
	markPaid     int
	sessionCalls int
	sessionErr   error
	markPaidErr  error
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if t, ok := r.tickets[id]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	if r.sessionErr != nil {
		return r.sessionErr
	}
	r.sessionCalls++
	if t, ok := r.tickets[id]; ok {
		t.PaymentSessionID = &sessionID
	}
	return nil
}

func (r *fakeTicketRepo) MarkPaid(ctx context.Context, id, referenceID string, paidAt time.Time) error {
	if r.markPaidErr != nil {
		return r.markPaidErr
	}
	t, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.markPaid++
	t.Paid = true
	t.PaidAt = &paidAt
	t.PaymentReferenceID = &referenceID
	return nil
}

type fakeEmailLogRepo struct {
	entries   []domain.EmailLog
	createErr error
}

func (r *fakeEmailLogRepo) Create(ctx context.Context, log *domain.EmailLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *log)
	return nil
}

func (r *fakeEmailLogRepo) Stats(ctx context.Context) ([]repository.DeliveryStat, error) {
	return nil, nil
}

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (d *fakeDeduper) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

type fakeSettingsRepo struct {
	setting *domain.Setting
	err     error
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.setting == nil {
		return nil, pgx.ErrNoRows
	}
	return r.setting, nil
}

type fakeGateway struct {
	lastParams payment.SessionParams
	session    *payment.CheckoutSession
	err        error
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.CheckoutSession, error) {
	g.lastParams = params
	if g.err != nil {
		return nil, g.err
	}
	if g.session != nil {
		return g.session, nil
	}
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://gateway.example/pay/cs_test_1"}, nil
}

var errUpstream = errors.New("upstream exploded")

type fakeTrackerAPI struct {
	repos       []tracker.Repo
	issue       *tracker.Issue
	timeline    []tracker.TimelineEvent
	comments    []tracker.Comment
	issueEvents []tracker.IssueEvent
	hook        *tracker.Hook

	issueErr    error
	timelineErr error
	commentsErr error
	eventsErr   error
}

func (f *fakeTrackerAPI) ListRepos(ctx context.Context) ([]tracker.Repo, error) {
	return f.repos, nil
}

func (f *fakeTrackerAPI) CreateIssue(ctx context.Context, repo string, params tracker.CreateIssueParams) (*tracker.Issue, error) {
	return &tracker.Issue{Number: 7, Title: params.Title, State: "open", HTMLURL: "https://tracker.example/" + repo + "/issues/7"}, nil
}

func (f *fakeTrackerAPI) GetIssue(ctx context.Context, repo string, number int) (*tracker.Issue, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return f.issue, nil
}

func (f *fakeTrackerAPI) ListTimeline(ctx context.Context, repo string, number int) ([]tracker.TimelineEvent, error) {
	if f.timelineErr != nil {
		return nil, f.timelineErr
	}
	return f.timeline, nil
}

func (f *fakeTrackerAPI) ListComments(ctx context.Context, repo string, number int) ([]tracker.Comment, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments, nil
}

func (f *fakeTrackerAPI) ListIssueEvents(ctx context.Context, repo string, number int) ([]tracker.IssueEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.issueEvents, nil
}

func (f *fakeTrackerAPI) RegisterWebhook(ctx context.Context, repo, callbackURL, secret string) (*tracker.Hook, error) {
	return f.hook, nil
}
