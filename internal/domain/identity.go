package domain

// Identity 请求方身份，由上层显式传入每个工作流，不走全局状态
type Identity struct {
	UserID  string
	IsStaff bool
}

var Anonymous = Identity{}

func (i Identity) Authenticated() bool { return i.UserID != "" }

func (i Identity) Owns(r *Review) bool { return r != nil && r.UserID == i.UserID }
