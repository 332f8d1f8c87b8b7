package ax

import "fmt"

// 常用角色
const (
	RoleApplication    = "AXApplication"
	RoleTextArea       = "AXTextArea"
	RoleTextField      = "AXTextField"
	RoleButton         = "AXButton"
	RoleWindow         = "AXWindow"
	RoleSheet          = "AXSheet"
	RoleStaticText     = "AXStaticText"
	RoleGenericElement = "AXGenericElement"
	RoleGroup          = "AXGroup"
	RoleRadioButton    = "AXRadioButton"
	RolePopUpButton    = "AXPopUpButton"
	RoleRow            = "AXRow"
	RoleSlider         = "AXSlider"
	RoleMenuBar        = "AXMenuBar"
	RoleMenu           = "AXMenu"
	RoleMenuItem       = "AXMenuItem"
)

// RoleQuery 角色查询: 角色名及匹配文本作用的属性
type RoleQuery struct {
	Role      string
	MatchAttr string
}

// Roles 角色查询表
var Roles = []RoleQuery{
	{Role: RoleTextArea, MatchAttr: "AXTitle"},
	{Role: RoleTextField, MatchAttr: "AXRoleDescription"},
	{Role: RoleButton, MatchAttr: "AXTitle"},
	{Role: RoleWindow, MatchAttr: "AXTitle"},
	{Role: RoleSheet, MatchAttr: "AXDescription"},
	{Role: RoleStaticText, MatchAttr: "AXValue"},
	{Role: RoleGenericElement, MatchAttr: "AXValue"},
	{Role: RoleGroup, MatchAttr: "AXRoleDescription"},
	{Role: RoleRadioButton, MatchAttr: "AXTitle"},
	{Role: RolePopUpButton, MatchAttr: "AXTitle"},
	{Role: RoleRow, MatchAttr: "AXTitle"},
	{Role: RoleSlider, MatchAttr: "AXValue"},
}

// LookupRole 查找角色查询
func LookupRole(role string) (RoleQuery, bool) {
	for _, q := range Roles {
		if q.Role == role {
			return q, true
		}
	}
	return RoleQuery{}, false
}

// Criteria 构造查询条件，match 为空时只按角色匹配
func (q RoleQuery) Criteria(match string) Criteria {
	c := Criteria{"AXRole": q.Role}
	if match != "" {
		c[q.MatchAttr] = match
	}
	return c
}

// ByRole 返回指定角色的直接子元素，match 作用于该角色的匹配属性
func (e *Element) ByRole(role, match string) ([]*Element, error) {
	return e.byRole(false, role, match)
}

// ByRoleR 返回指定角色的所有后代元素
func (e *Element) ByRoleR(role, match string) ([]*Element, error) {
	return e.byRole(true, role, match)
}

func (e *Element) byRole(recursive bool, role, match string) ([]*Element, error) {
	q, ok := LookupRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: 不支持的角色查询 %s", ErrInvalidArguments, role)
	}
	return Collect(e.findAll(recursive, q.Criteria(match))), nil
}
