package models

// Role - роль пользователя, выданная провайдером идентификации.
type Role string

const (
	Consumer Role = "CONSUMER" // Покупатель, публикует тендеры
	Broker   Role = "BROKER"   // Посредник, публикует тендеры от имени покупателя
	SME      Role = "SME"      // Владелец бизнеса, подает предложения
	Admin    Role = "ADMIN"
)

// Actor - аутентифицированный пользователь, выполняющий операцию.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// CanPostTenders сообщает, может ли роль публиковать тендеры.
func (r Role) CanPostTenders() bool {
	return r == Consumer || r == Broker
}

// CanBid сообщает, может ли роль подавать предложения.
func (r Role) CanBid() bool {
	return r == SME
}

// Valid проверяет, что роль известна.
func (r Role) Valid() bool {
	switch r {
	case Consumer, Broker, SME, Admin:
		return true
	default:
		return false
	}
}
