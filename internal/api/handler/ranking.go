package handler

import (
	"strconv"

	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupRanking struct {
	container *do.Injector
}

func (gr *groupRanking) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceRanking, err := do.Invoke[*services.ServiceRanking](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	info, err := serviceRanking.GetUserRankingInfo(
		ctx,
		user.ID,
		services.RankingType(c.QueryParam("type")),
		services.RankingPeriod(c.QueryParam("period")),
	)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, info, nil)
}

func (gr *groupRanking) Chunk(c echo.Context) error {
	ctx := c.Request().Context()

	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
		}
	}

	serviceRanking, err := do.Invoke[*services.ServiceRanking](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceRanking.GetRankingChunk(
		ctx,
		services.RankingType(c.QueryParam("type")),
		services.RankingPeriod(c.QueryParam("period")),
		offset,
	)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"ranking": entries}, nil)
}
