package handlers

import (
	"context"
	"fmt"
	"net/http"

	"internmatch/models"
	"internmatch/utils"
)

const msgOpportunityCreated = "Opportunity created successfully!"

var opportunityFields = []string{"title", "description", "skills_required"}

// Dashboard lists every opportunity for a logged-in user.
func (h *Handler) Dashboard(ctx context.Context, req Request) Response {
	if !req.Authenticated() {
		return redirect(PathLogin, warning(msgLoginFirst))
	}

	opportunities, err := h.opportunities.ListAll(ctx)
	if err != nil {
		h.logger.Error("error retrieving opportunities", "user_id", req.UserID, "err", err)
		return render(TemplateDashboard, []models.Opportunity{}, danger(fmt.Sprintf("An error occurred: %v", err)))
	}
	return render(TemplateDashboard, opportunities)
}

// CreateOpportunity shows the creation form and stores new opportunities.
func (h *Handler) CreateOpportunity(ctx context.Context, req Request) Response {
	if !req.Authenticated() {
		return redirect(PathLogin, warning(msgLoginFirst))
	}
	if req.Method != http.MethodPost {
		return render(TemplateCreateOpportunity, nil)
	}

	again := func(f models.Flash) Response {
		return render(TemplateCreateOpportunity, nil, f).withForm(req.Form, opportunityFields...)
	}

	if missing := utils.MissingFields(req.Form, opportunityFields...); len(missing) > 0 {
		return again(danger(msgAllFieldsRequired))
	}

	o := &models.Opportunity{
		Title:          req.Form.Get("title"),
		Description:    req.Form.Get("description"),
		SkillsRequired: req.Form.Get("skills_required"),
		PostedDate:     h.now().UTC(),
	}
	if err := h.opportunities.Insert(ctx, o); err != nil {
		h.logger.Error("error inserting opportunity", "user_id", req.UserID, "err", err)
		return again(danger(fmt.Sprintf("An error occurred: %v", err)))
	}
	h.logger.Info("opportunity created", "opportunity_id", o.ID, "user_id", req.UserID)

	return redirect(PathDashboard, success(msgOpportunityCreated))
}
