package models

// UserDetails данные текущего пользователя, возвращаемые платёжным API.
type UserDetails struct {
	ID    string `json:"id"`    // Уникальный идентификатор пользователя
	Name  string `json:"name"`  // Отображаемое имя
	Email string `json:"email"` // Электронная почта
	Role  string `json:"role"`  // Роль пользователя, admin или user
}
