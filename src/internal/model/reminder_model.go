package model

// RatingReminderPayload is the delayed follow-up task body: enough to write
// the customer's reminder without re-reading the order.
type RatingReminderPayload struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	CustomerID     string `json:"customerId"`
	RestaurantName string `json:"restaurantName"`
}
