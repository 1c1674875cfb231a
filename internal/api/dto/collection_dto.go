package dto

// CollectionProductRef 按名称引用商品
type CollectionProductRef struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CollectionReq 创建/更新合集
type CollectionReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Handle      *string `json:"handle" binding:"omitempty,max=255,handle"`
	IsActive    *bool   `json:"is_active"`
	// data URL 为新图片，其它值保留原图
	Image    *string                `json:"image"`
	Products []CollectionProductRef `json:"products" binding:"dive"`
}
