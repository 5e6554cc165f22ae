package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// TxStarter is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PgProvisioningRepository struct {
	db       TxStarter
	logger   *slog.Logger
	hashCost int
	now      func() time.Time
}

func NewPgProvisioningRepository(db TxStarter, logger *slog.Logger) *PgProvisioningRepository {
	return &PgProvisioningRepository{
		db:       db,
		logger:   logger.With("component", "provisioning_repository_pg"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type businessHoursDoc struct {
	Description string `json:"description"`
	TimeZone    string `json:"timezone"`
}

const insertCompanySQL = `
	INSERT INTO companies (
		id, company_name, assistant_name, office_address, business_hours,
		contact_number, area_code, website_url, time_zone, knowledge_base_id,
		post_call_summary_sms, post_call_summary_email,
		summary_sms_number, summary_email_address,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

const insertAgentConfigSQL = `
	INSERT INTO company_agent_configs (
		id, company_id, llm_id_oh, llm_id_ah,
		agent_id_oh, agent_id_ah, agent_id_mr,
		conversation_flow_id, retell_phone_number, retell_phone_number_id,
		dashboard_email, dashboard_password_hash,
		status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

const insertPromptsSQL = `
	INSERT INTO company_prompts (
		company_id, global_prompt, office_hours_prompt,
		after_hours_prompt, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6)
`

// SaveProvisioning writes the company, its agent configuration and its prompts
// in one transaction and returns the new company id. Dashboard credentials are
// stored only when registration succeeded, and only as a bcrypt hash of
// passwordDigest.
func (r *PgProvisioningRepository) SaveProvisioning(ctx context.Context, rec domain.ProvisioningRecord) (string, error) {
	p, res := rec.Profile, rec.Result

	hours, err := json.Marshal(businessHoursDoc{Description: p.BusinessHours, TimeZone: p.IANATimeZone()})
	if err != nil {
		return "", fmt.Errorf("encoding business hours: %w", err)
	}

	var dashboardEmail, passwordHash *string
	if res.DashboardRegistered {
		h, err := bcrypt.GenerateFromPassword(passwordDigest(res.DashboardPassword), r.hashCost)
		if err != nil {
			return "", fmt.Errorf("hashing dashboard password: %w", err)
		}
		email, hash := res.DashboardEmail, string(h)
		dashboardEmail, passwordHash = &email, &hash
	}

	companyID := uuid.New()
	configID := uuid.New()
	now := r.now().UTC()

	err = r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertCompanySQL,
			companyID, p.Name, p.AssistantName, p.Address, hours,
			p.ContactPhone, p.AreaCode, p.WebsiteURL, p.IANATimeZone(), res.KnowledgeBaseID,
			p.SMSSummary.Enabled, p.EmailSummary.Enabled,
			nullable(p.SMSSummary.Destination), nullable(p.EmailSummary.Destination),
			now, now,
		); err != nil {
			return fmt.Errorf("inserting company: %w", err)
		}

		if _, err := tx.Exec(ctx, insertAgentConfigSQL,
			configID, companyID, res.OfficeHoursModelID, res.AfterHoursModelID,
			res.OfficeHoursAgentID, res.AfterHoursAgentID, nullable(res.RouterAgentID),
			nullable(res.CallFlowID), nullable(res.PhoneNumber), nullable(res.PhoneNumberID),
			dashboardEmail, passwordHash,
			"active", now, now,
		); err != nil {
			return fmt.Errorf("inserting agent config: %w", err)
		}

		if _, err := tx.Exec(ctx, insertPromptsSQL,
			companyID, rec.Prompts.Global, rec.Prompts.OfficeHours, rec.Prompts.AfterHours, now, now,
		); err != nil {
			return fmt.Errorf("inserting prompts: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save provisioning record", "business", p.Name, "error", err)
		return "", &domain.PersistenceFailure{Err: err}
	}

	r.logger.InfoContext(ctx, "Provisioning record saved", "company_id", companyID, "business", p.Name)
	return companyID.String(), nil
}

// inTx commits when fn succeeds and rolls back otherwise.
func (r *PgProvisioningRepository) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.logger.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// passwordDigest is the bcrypt input for a dashboard password. Passwords are
// derived from the business name and may exceed bcrypt's 72-byte limit; the
// base64 SHA-256 digest is always 44 bytes.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
