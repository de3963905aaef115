package handler

import (
	"errors"

	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAccount struct {
	container *do.Injector
}

type loginInput struct {
	InitData string `json:"init_data"`
}

func (gr *groupAccount) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var input loginInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	authentication, err := do.Invoke[*services.Authentication](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userAuth, err := authentication.ValidateInitData(input.InitData)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("invalid init data"), errorx.Authn))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	user, err := serviceUser.FindOrCreateUser(ctx, userAuth)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	token, err := authentication.CreateToken(user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, nil)
}

func (gr *groupAccount) Me(c echo.Context) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"user": user}, nil)
}

type registrationInput struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Language  string  `json:"language"`
	IsPremium bool    `json:"is_premium"`
	Source    *string `json:"source"`
}

// Registration is the bot-guarded variant of account creation, used when a
// user talks to the bot before ever opening the webapp.
func (gr *groupAccount) Registration(c echo.Context) error {
	ctx := c.Request().Context()

	var input registrationInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	if input.ID == 0 || input.FirstName == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("id and first_name are required"), errorx.Validation))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	language := models.UserLanguageEN
	if input.Language == string(models.UserLanguageRU) || input.Language == "ru" {
		language = models.UserLanguageRU
	}

	user, err := serviceUser.Register(ctx, &services.RegistrationInput{
		ID:        input.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Language:  language,
		IsPremium: input.IsPremium,
		Source:    input.Source,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"user": user}, nil)
}

type userIDInput struct {
	UserID int64 `json:"user_id"`
}

func (gr *groupAccount) SetInactive(c echo.Context) error {
	return gr.setActivity(c, false)
}

func (gr *groupAccount) SetActive(c echo.Context) error {
	return gr.setActivity(c, true)
}

func (gr *groupAccount) setActivity(c echo.Context, active bool) error {
	ctx := c.Request().Context()

	var input userIDInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var user *models.User
	if active {
		user, err = serviceUser.SetActive(ctx, input.UserID)
	} else {
		user, err = serviceUser.SetInactive(ctx, input.UserID)
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"user": user}, nil)
}
