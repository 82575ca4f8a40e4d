package model

import "fmt"

// UnitStatus 帮忙单元的状态，封闭枚举，不允许扩展
type UnitStatus string

const (
	StatusWaiting   UnitStatus = "waiting"
	StatusCheck     UnitStatus = "check"
	StatusCompleted UnitStatus = "completed"
)

// ServiceType 完成后给对方的优惠标签（不是钱，只是标签）
type ServiceType string

const (
	ServiceNone       ServiceType = "none"
	ServiceCafe       ServiceType = "cafe"
	ServiceRestaurant ServiceType = "restaurant"
)

// Rank 展示排序用的全序：waiting < check < completed
func (s UnitStatus) Rank() int {
	switch s {
	case StatusWaiting:
		return 0
	case StatusCheck:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// Label 展示文案
func (s UnitStatus) Label() string {
	switch s {
	case StatusWaiting:
		return "等待中"
	case StatusCheck:
		return "确认中"
	case StatusCompleted:
		return "已完成"
	}
	return ""
}

// ParseUnitStatus 传输层传来的未知状态一律报错，不做默认值兜底
func ParseUnitStatus(v string) (UnitStatus, error) {
	switch UnitStatus(v) {
	case StatusWaiting, StatusCheck, StatusCompleted:
		return UnitStatus(v), nil
	}
	return "", fmt.Errorf("unknown unit status: %q", v)
}

// ParseServiceType 校验优惠标签
func ParseServiceType(v string) (ServiceType, error) {
	switch ServiceType(v) {
	case ServiceNone, ServiceCafe, ServiceRestaurant:
		return ServiceType(v), nil
	}
	return "", fmt.Errorf("unknown service type: %q", v)
}

// 状态机唯一入口：新增转换只能加在这里，各调用点不得内联判断
var legalTransitions = map[UnitStatus]map[UnitStatus]bool{
	StatusWaiting: {StatusCheck: true},
	StatusCheck:   {StatusWaiting: true, StatusCompleted: true},
	// completed 是终态，没有出边
	StatusCompleted: {},
}

// CanTransition 判断单元状态转换是否合法
func CanTransition(from, to UnitStatus) bool {
	return legalTransitions[from][to]
}
