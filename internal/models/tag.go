package models

// TagType groups tags for reporting (e.g. need, want, saving).
type TagType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:tag_type;uniqueIndex;not null" json:"name"`
}

// MainTag is a top-level tag name.
type MainTag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"column:tag_name;uniqueIndex;not null" json:"name"`
	TagTypeID *uint  `json:"tag_type_id,omitempty"`
}

// SubTag refines a MainTag.
type SubTag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"column:tag_name;uniqueIndex;not null" json:"name"`
	ParentID  uint   `gorm:"not null" json:"parent_id"`
	TagTypeID *uint  `json:"tag_type_id,omitempty"`

	Parent MainTag `gorm:"foreignKey:ParentID" json:"-"`
}

// Tag is the (parent, child?) pair transaction details reference. Unique
// under (parent, child), and under (parent) when child is null.
type Tag struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	ParentID  uint  `gorm:"not null;uniqueIndex:idx_tag_parent_child" json:"parent_id"`
	ChildID   *uint `gorm:"uniqueIndex:idx_tag_parent_child" json:"child_id,omitempty"`
	TagTypeID *uint `json:"tag_type_id,omitempty"`

	Parent MainTag `gorm:"foreignKey:ParentID" json:"-"`
	Child  *SubTag `gorm:"foreignKey:ChildID" json:"-"`
}

// DisplayName renders "parent" or "parent / child".
func (t *Tag) DisplayName() string {
	if t.Child != nil {
		return t.Parent.Name + " / " + t.Child.Name
	}
	return t.Parent.Name
}
