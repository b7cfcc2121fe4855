package handler

import (
	"WorkUs/internal/api/dto"
	"WorkUs/internal/pkg/response"
	"WorkUs/internal/pkg/util"
	"WorkUs/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AdminStatsHandler struct {
	statsSvc service.AdminStatsService
}

func NewAdminStatsHandler(statsSvc service.AdminStatsService) *AdminStatsHandler {
	return &AdminStatsHandler{
		statsSvc: statsSvc,
	}
}

func (s *AdminStatsHandler) Overview(c *gin.Context) {
	overview, err := s.statsSvc.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

func (s *AdminStatsHandler) RealTime(c *gin.Context) {
	var query dto.RealTimeQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}
	period, ok := service.ParsePeriod(query.Period)
	if !ok {
		response.Error(c, service.ErrPeriodInvalid)
		return
	}

	evo, err := s.statsSvc.RealTimeStats(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"period":    period,
		"evolution": evo,
	})
}

func (s *AdminStatsHandler) Evolution(c *gin.Context) {
	set, err := s.statsSvc.UserEvolution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, set)
}

func (s *AdminStatsHandler) History(c *gin.Context) {
	records, err := s.statsSvc.History(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	result := make([]*dto.DailyRecordDTO, 0, len(records))
	if err = copier.Copy(&result, records); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Snapshot 手动记录今日快照；已有快照任务在运行时返回 409
func (s *AdminStatsHandler) Snapshot(c *gin.Context) {
	record, err := s.statsSvc.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	var result dto.DailyRecordDTO
	if err = copier.Copy(&result, record); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
