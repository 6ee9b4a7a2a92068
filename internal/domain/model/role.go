package model

// 認証基盤（外部）が発行するJWTに載るロール。
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
