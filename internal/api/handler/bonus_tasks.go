package handler

import (
	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBonusTasks struct {
	container *do.Injector
}

func (gr *groupBonusTasks) GetUncompleted(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBonusTask, err := do.Invoke[*services.ServiceBonusTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	tasks, err := serviceBonusTask.GetUncompleted(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"bonus_tasks": tasks}, nil)
}

type claimBonusTaskInput struct {
	BonusTaskID int64 `json:"bonus_task_id"`
}

func (gr *groupBonusTasks) Claim(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var input claimBonusTaskInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceBonusTask, err := do.Invoke[*services.ServiceBonusTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	user, err = serviceBonusTask.Claim(ctx, user.ID, input.BonusTaskID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"user": user}, nil)
}
