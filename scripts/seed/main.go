package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/config"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func main() {
	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== Database Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	ctx := context.Background()
	if err := seed(ctx, db); err != nil {
		printError(fmt.Sprintf("Seeding failed: %v", err))
		os.Exit(1)
	}

	printSuccess("\n✨ Seed data created")
}

func seed(ctx context.Context, db *sql.DB) error {
	templateRepo := repository.NewTemplateRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	// Templates
	welcomeSubject := "Thanks for reaching out, {{first_name}}!"
	welcome := &models.Template{
		Name:    "Lead Welcome Email",
		Channel: models.ChannelEmail,
		Subject: &welcomeSubject,
		Body: "Hi {{first_name}},\n\nThanks for requesting a roofing quote from {{company_name}}. " +
			"One of our estimators will reach out within one business day.\n\n" +
			"Questions in the meantime? Call us at {{company_phone}}.\n\n— The {{company_name}} team",
	}
	if err := templateRepo.Create(ctx, welcome); err != nil {
		return fmt.Errorf("failed to create welcome template: %w", err)
	}
	printSuccess("✓ Template: " + welcome.Name)

	followUp := &models.Template{
		Name:    "Quote Follow-up SMS",
		Channel: models.ChannelSMS,
		Body: "Hi {{first_name}}, this is {{company_name}}. Your roof quote is ready to review. " +
			"Reply or call {{company_phone}} with any questions.",
	}
	if err := templateRepo.Create(ctx, followUp); err != nil {
		return fmt.Errorf("failed to create follow-up template: %w", err)
	}
	printSuccess("✓ Template: " + followUp.Name)

	nudgeSubject := "Your roofing estimate from {{company_name}}"
	nudge := &models.Template{
		Name:    "Estimate Viewed Nudge",
		Channel: models.ChannelEmail,
		Subject: &nudgeSubject,
		Body: "Hi {{full_name}},\n\nWe noticed you viewed your estimate. " +
			"If you'd like to walk through the numbers or schedule the work, " +
			"we're at {{company_phone}}.\n\n— {{company_name}}",
	}
	if err := templateRepo.Create(ctx, nudge); err != nil {
		return fmt.Errorf("failed to create nudge template: %w", err)
	}
	printSuccess("✓ Template: " + nudge.Name)

	// Workflows
	workflows := []*models.Workflow{
		{
			Name:            "Welcome new leads",
			TriggerEvent:    "lead_created",
			Conditions:      models.ConditionSet{"has_email": true},
			DelayMinutes:    0,
			TemplateID:      welcome.ID,
			Active:          true,
			Priority:        100,
			MaxSendsPerLead: 1,
			CooldownHours:   0,
		},
		{
			Name:                 "Quote follow-up text",
			TriggerEvent:         "quote_sent",
			Conditions:           models.ConditionSet{"has_phone": true},
			DelayMinutes:         60,
			TemplateID:           followUp.ID,
			Active:               true,
			Priority:             50,
			MaxSendsPerLead:      3,
			CooldownHours:        24,
			RespectBusinessHours: true,
			BusinessHoursStart:   "09:00",
			BusinessHoursEnd:     "17:00",
			BusinessDays:         []int{1, 2, 3, 4, 5},
		},
		{
			Name:                 "Estimate viewed nudge",
			TriggerEvent:         "quote_viewed",
			Conditions:           models.ConditionSet{"status": []string{"quoted", "qualified"}},
			DelayMinutes:         240,
			TemplateID:           nudge.ID,
			Active:               true,
			Priority:             10,
			MaxSendsPerLead:      2,
			CooldownHours:        48,
			RespectBusinessHours: true,
			BusinessHoursStart:   "08:00",
			BusinessHoursEnd:     "18:00",
			BusinessDays:         []int{1, 2, 3, 4, 5, 6},
		},
	}
	for _, w := range workflows {
		if err := workflowRepo.Create(ctx, w); err != nil {
			return fmt.Errorf("failed to create workflow %q: %w", w.Name, err)
		}
		printSuccess("✓ Workflow: " + w.Name)
	}

	// A couple of sample leads for local testing
	firstName := "Dana"
	lastName := "Whitfield"
	email := "dana@example.com"
	phone := "+15035550142"
	source := "quote_form"
	lead := &models.Lead{
		FirstName: &firstName,
		LastName:  &lastName,
		Email:     &email,
		Phone:     &phone,
		Status:    models.LeadStatusNew,
		Source:    &source,
	}
	if err := leadRepo.Create(ctx, lead); err != nil {
		return fmt.Errorf("failed to create sample lead: %w", err)
	}
	printSuccess("✓ Lead: " + lead.FullName())

	phoneOnlyFirst := "Marcus"
	phoneOnlyPhone := "+15035550187"
	phoneOnlySource := "phone_call"
	phoneOnly := &models.Lead{
		FirstName: &phoneOnlyFirst,
		Phone:     &phoneOnlyPhone,
		Status:    models.LeadStatusContacted,
		Source:    &phoneOnlySource,
	}
	if err := leadRepo.Create(ctx, phoneOnly); err != nil {
		return fmt.Errorf("failed to create sample lead: %w", err)
	}
	printSuccess("✓ Lead: " + phoneOnly.FullName())

	return nil
}

func printInfo(msg string)    { fmt.Println(colorCyan + msg + colorReset) }
func printSuccess(msg string) { fmt.Println(colorGreen + msg + colorReset) }
func printError(msg string)   { fmt.Println(colorRed + msg + colorReset) }
