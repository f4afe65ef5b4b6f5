package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// InitiateTicketPaymentRequest represents the request body for starting a
// ticket checkout. Ticket checkout is public; the buyer is not a platform
// user.
type InitiateTicketPaymentRequest struct {
	CodeSettingID uint   `json:"code_setting_id" binding:"required"`
	BuyerName     string `json:"buyer_name" binding:"required"`
	BuyerEmail    string `json:"buyer_email" binding:"required"`
	Quantity      int    `json:"quantity"`
}

// InitiateTicketPayment creates a Razorpay order for a ticket-type code
// setting and records a pending ticket order
func InitiateTicketPayment(c *gin.Context) {
	utils.LogInfo("InitiateTicketPayment called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	var req InitiateTicketPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if valid, msg := utils.ValidateEmail(req.BuyerEmail); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}

	var event models.Event
	if err := config.DB.First(&event, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return
	}
	if !event.IsLive {
		utils.BadRequest(c, "Ticket sales are not open for this event", nil)
		return
	}

	var setting models.CodeSetting
	if err := config.DB.Where("id = ? AND event_id = ?", req.CodeSettingID, eventID).
		First(&setting).Error; err != nil {
		utils.NotFound(c, "Ticket not found for this event")
		return
	}
	if setting.Type != models.CodeSettingTypeTicket || !setting.IsEnabled {
		utils.LogError("Rejected checkout against setting ID: %d (type: %s, enabled: %v)", setting.ID, setting.Type, setting.IsEnabled)
		utils.BadRequest(c, "This ticket is not on sale", nil)
		return
	}
	if setting.Price <= 0 {
		utils.BadRequest(c, "This ticket has no price configured", nil)
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > setting.MaxPax {
		utils.BadRequest(c, fmt.Sprintf("You can buy at most %d tickets per order", setting.MaxPax), nil)
		return
	}

	if setting.Limit > 0 {
		var sold int64
		if err := config.DB.Model(&models.Code{}).
			Where("code_setting_id = ? AND status <> ?", setting.ID, models.CodeStatusCancelled).
			Count(&sold).Error; err != nil {
			utils.LogError("Failed to count sold tickets for setting ID: %d: %v", setting.ID, err)
			utils.InternalServerError(c, "Failed to start checkout", err.Error())
			return
		}
		if sold+int64(quantity) > int64(setting.Limit) {
			utils.Conflict(c, "Not enough tickets remaining", gin.H{
				"remaining": setting.Limit - int(sold),
			})
			return
		}
	}

	amount := setting.Price * float64(quantity)
	order := models.TicketOrder{
		EventID:       eventID,
		CodeSettingID: setting.ID,
		BuyerName:     strings.TrimSpace(req.BuyerName),
		BuyerEmail:    strings.TrimSpace(req.BuyerEmail),
		Quantity:      quantity,
		Amount:        amount,
		Status:        models.TicketOrderStatusPending,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		utils.LogError("Failed to create ticket order for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to start checkout", err.Error())
		return
	}

	amountPaise := int(amount * 100)
	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         "ticket_rcptid_" + strconv.FormatUint(uint64(order.ID), 10),
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for ticket order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}

	if err := config.DB.Model(&order).
		Update("razorpay_order_id", fmt.Sprintf("%v", rzOrder["id"])).Error; err != nil {
		utils.LogError("Failed to store Razorpay order ID for ticket order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to update order details", err.Error())
		return
	}

	utils.LogInfo("Initiated ticket payment for order ID: %d, amount: %d paise", order.ID, amountPaise)
	utils.Success(c, "Payment initiated successfully", gin.H{
		"order": gin.H{
			"id":                order.ID,
			"razorpay_order_id": rzOrder["id"],
			"amount":            fmt.Sprintf("%.2f", amount),
			"quantity":          quantity,
			"ticket":            setting.Name,
		},
		"key": os.Getenv("RAZORPAY_KEY"),
	})
}

// VerifyTicketPaymentRequest represents the request body for confirming a
// Razorpay payment
type VerifyTicketPaymentRequest struct {
	OrderID           uint   `json:"order_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyTicketPayment verifies the Razorpay signature, marks the order
// paid and issues one code per ticket bought
func VerifyTicketPayment(c *gin.Context) {
	utils.LogInfo("VerifyTicketPayment called")

	var req VerifyTicketPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.RazorpaySignature {
		utils.LogError("Payment verification failed for ticket order ID: %d", req.OrderID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}
	utils.LogInfo("Payment signature verified for ticket order ID: %d", req.OrderID)

	var order models.TicketOrder
	if err := config.DB.First(&order, req.OrderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if order.RazorpayOrderID != req.RazorpayOrderID {
		utils.LogError("Razorpay order ID mismatch for ticket order ID: %d. Expected: %s, Received: %s",
			req.OrderID, order.RazorpayOrderID, req.RazorpayOrderID)
		utils.BadRequest(c, "Invalid Razorpay order ID", nil)
		return
	}
	if order.Status == models.TicketOrderStatusPaid {
		utils.LogInfo("Ticket order ID: %d already paid, returning existing codes", order.ID)
		returnOrderCodes(c, &order)
		return
	}

	var setting models.CodeSetting
	if err := config.DB.First(&setting, order.CodeSettingID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load ticket", err.Error())
		return
	}
	var event models.Event
	if err := config.DB.First(&event, order.EventID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load event", err.Error())
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to process payment", tx.Error.Error())
		return
	}

	if err := tx.Model(&order).Updates(map[string]interface{}{
		"status":     models.TicketOrderStatusPaid,
		"payment_id": req.RazorpayPaymentID,
	}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to mark ticket order ID: %d paid: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to process payment", err.Error())
		return
	}

	codes := make([]models.Code, 0, order.Quantity)
	for i := 0; i < order.Quantity; i++ {
		code := models.Code{
			EventID:       order.EventID,
			CodeSettingID: order.CodeSettingID,
			Value:         strings.ToUpper(uuid.New().String()[:8]),
			GuestName:     order.BuyerName,
			GuestEmail:    order.BuyerEmail,
			Pax:           1,
			Status:        models.CodeStatusActive,
		}
		if err := tx.Create(&code).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to issue ticket code for order ID: %d: %v", order.ID, err)
			utils.InternalServerError(c, "Failed to issue tickets", err.Error())
			return
		}
		codes = append(codes, code)
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit ticket issue for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to issue tickets", err.Error())
		return
	}

	var brand models.Brand
	if err := config.DB.First(&brand, event.BrandID).Error; err == nil {
		for i := range codes {
			pdf, err := utils.GenerateCodePDF(&codes[i], &setting, &event, &brand)
			if err != nil {
				utils.LogError("Failed to generate ticket PDF for code ID: %d: %v", codes[i].ID, err)
				continue
			}
			if err := utils.SendCodeEmail(order.BuyerEmail, order.BuyerName, event.Title, setting.Name, pdf); err != nil {
				utils.LogError("Failed to email ticket for code ID: %d: %v", codes[i].ID, err)
			}
		}
	}

	utils.LogInfo("Issued %d ticket codes for order ID: %d", len(codes), order.ID)
	utils.Success(c, "Payment verified and tickets issued", gin.H{
		"order_id": order.ID,
		"status":   models.TicketOrderStatusPaid,
		"codes":    codes,
	})
}

func returnOrderCodes(c *gin.Context, order *models.TicketOrder) {
	var codes []models.Code
	if err := config.DB.Where("event_id = ? AND code_setting_id = ? AND guest_email = ?",
		order.EventID, order.CodeSettingID, order.BuyerEmail).
		Find(&codes).Error; err != nil {
		utils.InternalServerError(c, "Failed to load tickets", err.Error())
		return
	}
	utils.Success(c, "Payment already verified", gin.H{
		"order_id": order.ID,
		"status":   order.Status,
		"codes":    codes,
	})
}
