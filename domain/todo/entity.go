package todo

import (
	"time"
)

// TodoList groups tasks under a single owning user.
type TodoList struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:64;not null"`
	OwnerID   string `gorm:"index;not null;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the TodoList entity.
func (TodoList) TableName() string {
	return "todo_lists"
}

// Task is a single todo item. Its owner is the list it belongs to;
// visibility is always resolved transitively through the list's owner.
type Task struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:128;not null"`
	DueDate   time.Time `gorm:"not null"`
	Completed bool      `gorm:"not null;default:false"`
	ListID    string    `gorm:"index;not null;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
