package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/auth"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/domain"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type RoomHandler struct {
	jwtCfg           *config.JWTConfig
	consultationRepo *repository.ConsultationRepository
	hub              *ws.RoomHub
}

func NewRoomHandler(jwtCfg *config.JWTConfig, consultationRepo *repository.ConsultationRepository, hub *ws.RoomHub) *RoomHandler {
	return &RoomHandler{jwtCfg: jwtCfg, consultationRepo: consultationRepo, hub: hub}
}

// Join upgrades to a websocket and puts the caller into the consultation's
// meeting room. The first join of each side stamps the entered-at time on the
// Consultation row. The token travels as a query parameter because browser
// websocket clients cannot set headers.
func (h *RoomHandler) Join(c *gin.Context) {
	consultationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || consultationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consultation id"})
		return
	}
	claims, err := auth.ParseAccessToken(h.jwtCfg, c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	consultation, err := h.consultationRepo.GetByID(consultationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no consultation found"})
		return
	}
	var role string
	switch claims.UserID {
	case consultation.RequesterID:
		role = domain.RoleUser
	case consultation.ConsultantID:
		role = domain.RoleConsultant
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of the consultation"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	now := time.Now()
	if role == domain.RoleUser {
		_ = h.consultationRepo.MarkRequesterEntered(consultationID, now)
	} else {
		_ = h.consultationRepo.MarkConsultantEntered(consultationID, now)
	}

	client := ws.NewRoomClient(claims.UserID, role, conn)
	h.hub.Join(consultation.RoomName, client)
	defer h.hub.Leave(consultation.RoomName, client)

	h.hub.Broadcast(consultation.RoomName, client, []byte(`{"event":"joined","role":"`+role+`"}`))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.hub.Broadcast(consultation.RoomName, client, payload)
	}
	h.hub.Broadcast(consultation.RoomName, client, []byte(`{"event":"left","role":"`+role+`"}`))
}
