package dto

type RenderInput struct {
	BillID   string `json:"bill_id"`
	Language string `json:"language"`
}

type SendInput struct {
	BillID   string `json:"bill_id"`
	Phone    string `json:"phone"` // defaults to the bill's customer phone
	Language string `json:"language"`
}

type Receipt struct {
	BillID   string `json:"bill_id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type Delivery struct {
	BillID    string `json:"bill_id"`
	Channel   string `json:"channel"`
	Phone     string `json:"phone"`
	MessageID string `json:"message_id"`
}
