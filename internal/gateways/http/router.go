package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"subtrack/internal/entitlement"
	"subtrack/internal/entity"
	"subtrack/internal/export"
	"subtrack/internal/gateways/http/model"
	"subtrack/internal/usecase"
)

func setupRouter(r *gin.Engine, u UseCases) {
	r.HandleMethodNotAllowed = true

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	{
		v1 := r.Group("api/v1/")
		setupSubscriptions(v1, u)
		setupPreferences(v1, u)
		setupNotifications(v1, u)
		setupEntitlements(v1, u)
		setupExport(v1, u)
	}
}

func toModel(e entity.Subscription) *model.Subscription {
	m := &model.Subscription{
		ID:             strfmt.UUID(e.ID.String()),
		Name:           e.Name,
		Note:           e.Note,
		Price:          e.Price.String(),
		NextChargeDate: strfmt.Date(e.NextChargeDate),
		IsActive:       e.IsActive,
		CreatedAt:      strfmt.DateTime(e.CreatedAt),
		UpdatedAt:      strfmt.DateTime(e.UpdatedAt),
		BillingCycle:   string(e.BillingCycle),
		Currency:       e.Currency,
	}
	if e.ReminderOffsetDays != nil {
		m.ReminderOffsetDays = swag.Int64(int64(*e.ReminderOffsetDays))
	}
	return m
}

// toEntity builds the entity from a validated input. A nil defaultOffset
// means an omitted reminder offset stays nil; the create flow passes the
// user's default instead.
func toEntity(input *model.SubscriptionInput, id uuid.UUID, defaultOffset *int) (entity.Subscription, error) {
	price, err := decimal.NewFromString(swag.StringValue(input.Price))
	if err != nil || price.IsNegative() {
		return entity.Subscription{}, usecase.ErrInvalidSubscription
	}

	sub := entity.Subscription{
		ID:             id,
		Name:           strings.TrimSpace(input.Name),
		Note:           input.Note,
		Price:          price,
		NextChargeDate: time.Time(*input.NextChargeDate),
		IsActive:       true,
		BillingCycle:   entity.CycleMonthly,
		Currency:       entity.DefaultCurrency,
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}
	if input.Currency != "" {
		sub.Currency = input.Currency
	}
	if input.ReminderOffsetDays != nil {
		offset := int(*input.ReminderOffsetDays)
		sub.ReminderOffsetDays = &offset
	} else if defaultOffset != nil {
		sub.ReminderOffsetDays = defaultOffset
	}
	return sub, nil
}

func bindSubscriptionInput(c *gin.Context) (*model.SubscriptionInput, bool) {
	if c.ContentType() != "" && c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Use application/json"})
		return nil, false
	}

	var input *model.SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := input.Validate(strfmt.Default); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	return input, true
}

func setupSubscriptions(r *gin.RouterGroup, u UseCases) {
	r.GET("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}

		var subs []entity.Subscription
		switch {
		case c.Query("sorted") == "true":
			subs = u.Store.ActiveSorted()
		case c.Query("active") == "true":
			subs = u.Store.Active()
		default:
			subs = u.Store.Subscriptions()
		}

		resp := make([]*model.Subscription, 0, len(subs))
		for _, sub := range subs {
			resp = append(resp, toModel(sub))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		input, ok := bindSubscriptionInput(c)
		if !ok {
			return
		}

		defaultOffset := u.Store.DefaultReminderOffsetDays()
		sub, err := toEntity(input, uuid.New(), &defaultOffset)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid subscription data"})
			return
		}

		err = u.Store.Add(c, sub)
		switch {
		case errors.Is(err, usecase.ErrFreeLimitReached):
			c.JSON(http.StatusForbidden, gin.H{"error": "free limit reached", "upgrade_required": true})
			return
		case errors.Is(err, usecase.ErrInvalidSubscription):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid subscription data"})
			return
		case errors.Is(err, usecase.ErrDuplicateID):
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate id"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		created, _ := u.Store.Subscription(sub.ID)
		c.JSON(http.StatusCreated, toModel(created))
	})

	r.OPTIONS("/subscriptions", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "POST,OPTIONS,GET")
		c.Status(http.StatusNoContent)
	})

	r.GET("/subscriptions/summary", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		c.JSON(http.StatusOK, &model.Summary{
			TotalPerMonth:    u.Store.TotalPerMonth().String(),
			AnnualEstimate:   u.Store.AnnualEstimate().String(),
			ActiveCount:      int64(len(u.Store.Active())),
			FreeLimit:        entitlement.FreeLimit,
			FreeLimitReached: u.Store.FreeLimitReached(),
			IsPro:            u.Gate.IsPro(),
			FeedbackMessage:  u.Store.FeedbackMessage(),
		})
	})

	r.GET("/subscriptions/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
			return
		}

		sub, found := u.Store.Subscription(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, toModel(sub))
	})

	r.PUT("/subscriptions/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
			return
		}
		if _, found := u.Store.Subscription(id); !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		input, ok := bindSubscriptionInput(c)
		if !ok {
			return
		}

		sub, err := toEntity(input, id, nil)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid subscription data"})
			return
		}

		if err := u.Store.Update(c, sub); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid subscription data"})
			return
		}

		updated, _ := u.Store.Subscription(id)
		c.JSON(http.StatusOK, toModel(updated))
	})

	r.OPTIONS("/subscriptions/:id", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "PUT,OPTIONS,GET")
		c.Status(http.StatusNoContent)
	})
}

func setupPreferences(r *gin.RouterGroup, u UseCases) {
	writePreferences := func(c *gin.Context) {
		c.JSON(http.StatusOK, &model.Preferences{
			NotificationsEnabled:      u.Store.NotificationsEnabled(),
			DefaultReminderOffsetDays: int64(u.Store.DefaultReminderOffsetDays()),
			DidShowIntro:              u.Store.DidShowIntro(),
		})
	}

	r.GET("/preferences", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		writePreferences(c)
	})

	r.PUT("/preferences", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input *model.PreferencesUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.Validate(strfmt.Default); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if input.NotificationsEnabled != nil {
			u.Store.SetNotificationsEnabled(c, *input.NotificationsEnabled)
		}
		if input.DefaultReminderOffsetDays != nil {
			u.Store.SetDefaultReminderOffsetDays(c, int(*input.DefaultReminderOffsetDays))
		}
		if input.DidShowIntro != nil && *input.DidShowIntro {
			u.Store.MarkIntroShown()
		}
		writePreferences(c)
	})

	r.OPTIONS("/preferences", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "PUT,OPTIONS,GET")
		c.Status(http.StatusNoContent)
	})
}

func setupNotifications(r *gin.RouterGroup, u UseCases) {
	r.GET("/notifications", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		c.JSON(http.StatusOK, &model.NotificationStatus{
			AuthorizationStatus: u.Scheduler.AuthorizationState().String(),
			HasAuthorization:    u.Scheduler.HasAuthorization(),
			Enabled:             u.Store.NotificationsEnabled(),
		})
	})

	r.POST("/notifications/permission", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		granted := u.Store.RequestNotificationPermission(c)
		c.JSON(http.StatusOK, &model.PermissionResult{Granted: granted})
	})
}

func setupEntitlements(r *gin.RouterGroup, u UseCases) {
	r.GET("/entitlements", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		resp := &model.Entitlements{
			IsPro:     u.Gate.IsPro(),
			FreeLimit: entitlement.FreeLimit,
		}
		// A storefront listing failure hides the products, not the state.
		if products, err := u.Gate.Products(c); err == nil {
			for _, p := range products {
				resp.Products = append(resp.Products, model.Product{
					ID:           p.ID,
					DisplayName:  p.DisplayName,
					DisplayPrice: p.DisplayPrice,
				})
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/entitlements/purchase", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input *model.PurchaseRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.Validate(strfmt.Default); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		// A failed or cancelled purchase reads as not unlocked; details
		// stay in the gate's log.
		success, _ := u.Gate.Purchase(c, swag.StringValue(input.ProductID))
		c.JSON(http.StatusOK, &model.PurchaseResult{Success: success})
	})
}

func setupExport(r *gin.RouterGroup, u UseCases) {
	r.POST("/export", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input *model.ExportRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.Validate(strfmt.Default); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		subs := u.Store.Subscriptions()

		var path string
		var err error
		if input.Format == "xlsx" {
			path, err = export.WriteXLSX(u.Export.Dir, subs)
		} else {
			delimiter := export.Semicolon
			if input.Delimiter != "" {
				delimiter, _ = export.ParseDelimiter(input.Delimiter)
			}
			includeBOM := u.Export.IncludeBOM
			if input.IncludeBOM != nil {
				includeBOM = *input.IncludeBOM
			}
			path, err = export.WriteCSV(u.Export.Dir, export.SubscriptionsCSV(subs, delimiter), includeBOM)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed, please try again"})
			return
		}
		c.JSON(http.StatusCreated, &model.ExportResult{Path: path})
	})

	r.GET("/export/preview", func(c *gin.Context) {
		c.String(http.StatusOK, export.PreviewTable(u.Store.Subscriptions()))
	})
}

func acceptsJSON(h string) bool {
	if h == "" || h == "*/*" {
		return true
	}
	parts := strings.Split(h, ",")
	for _, p := range parts {
		mt := strings.TrimSpace(strings.SplitN(p, ";", 2)[0])
		if mt == "application/json" || mt == "*/*" {
			return true
		}
	}
	return false
}

func requireAcceptJSON(c *gin.Context) bool {
	if acceptsJSON(c.GetHeader("Accept")) {
		return true
	}
	c.JSON(http.StatusNotAcceptable, gin.H{"error": "Accept application/json only"})
	return false
}
