package handler

import (
	"WorkUs/internal/api/dto"
	"WorkUs/internal/api/middleware"
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/response"
	"WorkUs/internal/pkg/util"
	"WorkUs/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type AdminUserHandler struct {
	userSvc service.AdminUserService
}

func NewAdminUserHandler(userSvc service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{
		userSvc: userSvc,
	}
}

// ListUsers 合并后的用户列表，summary 统计筛选前的全部用户
func (s *AdminUserHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	users, err := s.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := service.UserFilter{
		Active:  query.Active,
		Keyword: query.Keyword,
	}
	if query.Role != "" {
		filter.Role, _ = model.ParseRole(query.Role)
	}
	matched := service.FilterUsers(users, filter)

	page, size := query.Page, query.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)
	start, end := pageBounds(page, size, len(matched))

	result := &dto.AdminUserListDTO{
		Users:   make([]*dto.AdminUserDTO, 0, end-start),
		Matched: len(matched),
		Page:    page,
		Size:    size,
	}
	if err = copier.Copy(&result.Users, matched[start:end]); err != nil {
		response.Error(c, err)
		return
	}
	if err = copier.Copy(&result.Summary, service.Summarize(users)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AdminUserHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	role, _ := model.ParseRole(req.Role)

	users, err := s.userSvc.ChangeRole(c.Request.Context(), actorOf(c), c.Param("user_id"), role)
	s.respondUsers(c, users, err)
}

// UpdateProfile 完整资料编辑，只提交需要修改的字段
func (s *AdminUserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		req.Role = &role
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	patch := model.FullOverride{
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
	}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
			return
		}
		patch.Username = &name
	}
	if req.Role != nil {
		role, ok := model.ParseRole(*req.Role)
		if !ok {
			response.Error(c, service.ErrRoleInvalid)
			return
		}
		patch.Role = &role
	}

	users, err := s.userSvc.UpdateProfile(c.Request.Context(), actorOf(c), c.Param("user_id"), patch)
	s.respondUsers(c, users, err)
}

func (s *AdminUserHandler) ToggleActive(c *gin.Context) {
	users, err := s.userSvc.ToggleActive(c.Request.Context(), actorOf(c), c.Param("user_id"))
	s.respondUsers(c, users, err)
}

func (s *AdminUserHandler) DeleteUser(c *gin.Context) {
	users, err := s.userSvc.DeleteUser(c.Request.Context(), actorOf(c), c.Param("user_id"))
	s.respondUsers(c, users, err)
}

// respondUsers 写操作返回操作后的完整列表
func (s *AdminUserHandler) respondUsers(c *gin.Context, users []*model.MergedUser, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	result := make([]*dto.AdminUserDTO, 0, len(users))
	if err = copier.Copy(&result, users); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// pageBounds 页码超出范围时返回空区间，不做可能溢出的乘法
func pageBounds(page, size, total int) (start, end int) {
	pages := (total + size - 1) / size
	if page-1 >= pages {
		return total, total
	}
	start = (page - 1) * size
	return start, min(start+size, total)
}

func actorOf(c *gin.Context) service.Actor {
	return service.Actor{
		ID:    c.GetString(middleware.UserIDKey),
		Email: c.GetString(middleware.UserEmailKey),
	}
}
