package dto

// LinkMaxChatRequest binds a MAX chat to a channel
type LinkMaxChatRequest struct {
	MaxChatID int64 `json:"maxChatId" validate:"required"`
}

// UpdateAnalyticsRequest replaces a channel's analytics config
type UpdateAnalyticsRequest struct {
	YandexMetrikaID string `json:"yandexMetrikaId" validate:"omitempty,numeric,max=32"`
	VKPixelID       string `json:"vkPixelId" validate:"omitempty,max=64"`
}
