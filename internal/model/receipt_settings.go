package model

// ReceiptSettings is a singleton row controlling what the printed receipt
// shows. The sale receipt payload echoes these flags so the display
// collaborator needs no extra round trip.
type ReceiptSettings struct {
	BaseModel
	ShowLogo         bool   `gorm:"default:true" json:"show_logo"`
	ShowThankYouNote bool   `gorm:"default:true" json:"show_thank_you_note"`
	ThankYouNote     string `gorm:"type:varchar(255);default:'Thank you for your purchase!'" json:"thank_you_note"`
	ShowCashierName  bool   `gorm:"default:true" json:"show_cashier_name"`
	ShowSalesTime    bool   `gorm:"default:true" json:"show_sales_time"`
}

// DefaultReceiptSettings seeds the singleton on first boot.
func DefaultReceiptSettings() ReceiptSettings {
	return ReceiptSettings{
		ShowLogo:         true,
		ShowThankYouNote: true,
		ThankYouNote:     "Thank you for your purchase!",
		ShowCashierName:  true,
		ShowSalesTime:    true,
	}
}
