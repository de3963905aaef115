package handler

import (
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

// groupService holds the bot-guarded ops endpoints: audience stats,
// referral-link management and bonus-task management. These never face the
// webapp.
type groupService struct {
	container *do.Injector
}

func (gr *groupService) Stats(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	snapshot, err := serviceStats.Snapshot(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, snapshot, nil)
}

type createReferralLinkInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (gr *groupService) CreateReferralLink(c echo.Context) error {
	var input createReferralLinkInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceLinks, err := do.Invoke[*services.ServiceReferralLink](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	link, err := serviceLinks.Create(c.Request().Context(), input.ID, input.Name)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"link": link}, nil)
}

func (gr *groupService) GetReferralLinks(c echo.Context) error {
	serviceLinks, err := do.Invoke[*services.ServiceReferralLink](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	links, err := serviceLinks.GetAll(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"links": links}, nil)
}

func (gr *groupService) GetReferralLinkStats(c echo.Context) error {
	serviceLinks, err := do.Invoke[*services.ServiceReferralLink](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stats, err := serviceLinks.GetStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, stats, nil)
}

type setLinkActiveInput struct {
	IsActive bool `json:"is_active"`
}

func (gr *groupService) SetReferralLinkActive(c echo.Context) error {
	var input setLinkActiveInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceLinks, err := do.Invoke[*services.ServiceReferralLink](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceLinks.SetActive(c.Request().Context(), c.Param("id"), input.IsActive); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, nil, nil)
}

type createBonusTaskInput struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Link         string               `json:"link"`
	RewardAmount int64                `json:"reward_amount"`
	TaskType     models.BonusTaskType `json:"task_type"`
	AccessID     *int64               `json:"access_id"`
	AccessData   *string              `json:"access_data"`
}

func (gr *groupService) CreateBonusTask(c echo.Context) error {
	var input createBonusTaskInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceBonusTask, err := do.Invoke[*services.ServiceBonusTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	task, err := serviceBonusTask.Create(c.Request().Context(), &models.BonusTask{
		Name:         input.Name,
		Description:  input.Description,
		Link:         input.Link,
		RewardAmount: input.RewardAmount,
		TaskType:     input.TaskType,
		AccessID:     input.AccessID,
		AccessData:   input.AccessData,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"bonus_task": task}, nil)
}

type deleteBonusTaskInput struct {
	BonusTaskID int64 `json:"bonus_task_id"`
}

func (gr *groupService) DeleteBonusTask(c echo.Context) error {
	var input deleteBonusTaskInput
	if err := c.Bind(&input); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceBonusTask, err := do.Invoke[*services.ServiceBonusTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceBonusTask.Delete(c.Request().Context(), input.BonusTaskID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, nil, nil)
}
