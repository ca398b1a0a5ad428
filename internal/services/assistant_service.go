package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/stwalsh4118/estatedesk/internal/ai"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// Assistant limits
const (
	MaxStagingImageBytes = 10 << 20
	imageFetchTimeout    = 20 * time.Second
	adCopyTemperature    = 0.9
	searchTemperature    = 0.7
)

// Amenity names used in ad copy.
const (
	amenityElevator = "آسانسور"
	amenityParking  = "پارکینگ"
	amenityStorage  = "انباری"
)

// StagingInput selects the photo to stage and the style to apply.
// Image, when set, is a data URI, raw base64 or an http(s) URL and takes
// precedence over ImageIndex.
type StagingInput struct {
	PropertyID string
	ImageIndex int
	Image      string
	Style      string
}

// AssistantService is the AI assistant: chat, ad copy, schedule
// suggestions, suggestive search and virtual staging.
type AssistantService interface {
	// Chat answers message as the office assistant.
	Chat(ctx context.Context, activeUserID, message string) (string, error)

	// AdCopy writes a classified ad for a listing.
	AdCopy(ctx context.Context, propertyID string) (string, error)

	// SuggestSchedule proposes a date and time for a task.
	SuggestSchedule(ctx context.Context, title string, priority models.Priority) (*models.ScheduleSuggestion, error)

	// Search asks for three fictional listings matching a description.
	Search(ctx context.Context, query string) ([]models.AIListing, error)

	// Staging returns a data URI of the photo furnished in the given style.
	Staging(ctx context.Context, in StagingInput) (string, error)
}

type assistantService struct {
	gen        ai.Generator
	settings   SettingsService
	properties repository.Repository[models.Property]
	clients    repository.Repository[models.Client]
	users      repository.Repository[models.User]
	http       *http.Client
	log        *logger.Logger
}

// NewAssistantService creates a new instance of AssistantService.
func NewAssistantService(
	gen ai.Generator,
	settings SettingsService,
	properties repository.Repository[models.Property],
	clients repository.Repository[models.Client],
	users repository.Repository[models.User],
	log *logger.Logger,
) AssistantService {
	return &assistantService{
		gen:        gen,
		settings:   settings,
		properties: properties,
		clients:    clients,
		users:      users,
		http:       newImageClient(),
		log:        log.WithComponent("assistant"),
	}
}

func (s *assistantService) Chat(ctx context.Context, activeUserID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fieldError("message", "Type a message first")
	}

	cfg, err := s.settings.AIConfig(ctx, models.AIKindText)
	if err != nil {
		return "", err
	}

	name := "مهمان"
	if u, err := s.users.Get(ctx, activeUserID); err == nil && u.Name != "" {
		name = u.Name
	}
	properties, err := s.properties.List(ctx)
	if err != nil {
		return "", err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf("User: %s\nتعداد املاک: %d, تعداد مشتریان: %d", name, len(properties), len(clients))
	system := "شما الکسا (دستیار املاک) هستید. " + summary + ". هدف شما کمک به کاربر در مدیریت املاک است."

	answer, err := s.gen.GenerateText(ctx, ai.TextRequest{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		Prompt:            message,
		SystemInstruction: system,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("Chat answered", map[string]interface{}{
		"user_id": activeUserID,
		"chars":   len(answer),
	})
	return answer, nil
}

func (s *assistantService) AdCopy(ctx context.Context, propertyID string) (string, error) {
	p, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		return "", err
	}

	cfg, err := s.settings.AIConfig(ctx, models.AIKindText)
	if err != nil {
		return "", err
	}

	features := strings.Join(p.AllFeatures(amenityElevator, amenityParking, amenityStorage), "، ")
	prompt := strings.Join([]string{
		`به عنوان یک کپی‌رایتر ارشد املاک با تخصص در روانشناسی فروش، یک متن آگهی دیوار فوق‌العاده حرفه‌ای و "میخکوب‌کننده" بنویس.`,
		"",
		"**خروجی فقط متن نهایی** باشد (بدون توضیحات اضافه).",
		"از ایموجی‌های جذاب استفاده کن.",
		"",
		"اطلاعات ملک:",
		"عنوان: " + p.Title,
		"آدرس: " + p.Address,
		"قیمت: " + priceText(&p),
		"امکانات: " + features,
		"توضیحات: " + p.Description,
	}, "\n")

	temp := float32(adCopyTemperature)
	text, err := s.gen.GenerateText(ctx, ai.TextRequest{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Prompt:      prompt,
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("Ad copy generated", map[string]interface{}{"property_id": propertyID})
	return strings.TrimSpace(text), nil
}

func (s *assistantService) SuggestSchedule(ctx context.Context, title string, priority models.Priority) (*models.ScheduleSuggestion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fieldError("title", "Enter a task title first")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}

	cfg, err := s.settings.AIConfig(ctx, models.AIKindText)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`یک تاریخ و زمان بهینه فارسی برای وظیفه زیر پیشنهاد بده: "%s" با اولویت "%s". خروجی به صورت JSON باشد: {date: "YYYY/MM/DD", time: "HH:MM", reason: "دلیل پیشنهاد به فارسی"}`, title, priority)

	text, err := s.gen.GenerateText(ctx, ai.TextRequest{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Prompt:         prompt,
		ResponseSchema: ai.ScheduleSchema,
	})
	if err != nil {
		return nil, err
	}

	var suggestion models.ScheduleSuggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return nil, &ai.ServiceError{Status: http.StatusBadGateway, Message: "The AI answer was not in the expected format.", Err: err}
	}

	s.log.Info("Schedule suggested", map[string]interface{}{
		"date": suggestion.Date,
		"time": suggestion.Time,
	})
	return &suggestion, nil
}

func (s *assistantService) Search(ctx context.Context, query string) ([]models.AIListing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fieldError("query", "Describe what you are looking for")
	}

	cfg, err := s.settings.AIConfig(ctx, models.AIKindText)
	if err != nil {
		return nil, err
	}

	prompt := strings.Join([]string{
		"Act as a real estate database assistant for 'Persian Estate AI'. The user is searching for properties with the following description: \"" + query + "\".",
		"Generate 3 realistic but fictional property listings in Persian (Farsi) that match this criteria.",
		"The 'price' should be in Tomans or Dollars as appropriate for the Iranian market context, formatted nicely.",
		"Keep descriptions concise.",
	}, "\n")

	temp := float32(searchTemperature)
	text, err := s.gen.GenerateText(ctx, ai.TextRequest{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Prompt:         prompt,
		Temperature:    &temp,
		ResponseSchema: ai.ListingsSchema,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []models.AIListing{}, nil
	}

	var listings []models.AIListing
	if err := json.Unmarshal([]byte(text), &listings); err != nil {
		return nil, &ai.ServiceError{Status: http.StatusBadGateway, Message: "The AI answer was not in the expected format.", Err: err}
	}

	s.log.Info("AI search answered", map[string]interface{}{"results": len(listings)})
	return listings, nil
}

func (s *assistantService) Staging(ctx context.Context, in StagingInput) (string, error) {
	style := strings.TrimSpace(in.Style)
	if style == "" {
		return "", fieldError("style", "Choose or describe a staging style")
	}

	source := strings.TrimSpace(in.Image)
	if source == "" || isRemoteImage(source) {
		p, err := s.properties.Get(ctx, in.PropertyID)
		if err != nil {
			return "", err
		}
		switch {
		case source != "":
			if !containsString(p.Images, source) {
				return "", fieldError("image", "Only photos already on the listing can be fetched")
			}
		case in.ImageIndex < 0 || in.ImageIndex >= len(p.Images):
			return "", fieldError("imageIndex", "The listing has no photo at this position")
		default:
			source = p.Images[in.ImageIndex]
		}
	}

	cfg, err := s.settings.AIConfig(ctx, models.AIKindImage)
	if err != nil {
		return "", err
	}

	data, mimeType, err := s.loadImage(ctx, source)
	if err != nil {
		return "", err
	}

	img, err := s.gen.EditImage(ctx, ai.ImageRequest{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Image:    data,
		MIMEType: mimeType,
		Prompt:   "Virtual Staging. Style: " + style + ". Keep architecture.",
	})
	if err != nil {
		return "", err
	}
	if img == nil {
		return "", &ai.ServiceError{Status: http.StatusBadGateway, Message: "The AI service returned no image. Check the connection and the image API key."}
	}

	s.log.Info("Virtual staging generated", map[string]interface{}{
		"property_id": in.PropertyID,
		"style":       style,
		"bytes":       len(img.Data),
	})
	return DataURI(img.MIMEType, img.Data), nil
}

// loadImage resolves a photo reference to bytes and a MIME type.
func (s *assistantService) loadImage(ctx context.Context, source string) ([]byte, string, error) {
	switch {
	case isRemoteImage(source):
		return s.fetchImage(ctx, source)
	case strings.HasPrefix(source, "blob:"):
		return nil, "", fieldError("image", "Browser-local images must be sent as data URIs")
	default:
		data, mimeType, err := ParseDataURI(source)
		if err != nil {
			return nil, "", fieldError("image", "The image is not valid base64")
		}
		return data, mimeType, nil
	}
}

func (s *assistantService) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fieldError("image", "The image URL is not valid")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", &ai.ServiceError{Status: http.StatusBadGateway, Message: "Failed to fetch the image URL.", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &ai.ServiceError{
			Status:  http.StatusBadGateway,
			Message: "Failed to fetch the image URL.",
			Err:     errors.New("image fetch returned status " + strconv.Itoa(resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxStagingImageBytes+1))
	if err != nil {
		return nil, "", &ai.ServiceError{Status: http.StatusBadGateway, Message: "Failed to fetch the image URL.", Err: err}
	}
	if len(data) > MaxStagingImageBytes {
		return nil, "", fieldError("image", "The image is too large")
	}

	mimeType := "image/jpeg"
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(mt, "image/") {
			mimeType = mt
		}
	}
	return data, mimeType, nil
}

func isRemoteImage(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var errPrivateAddress = errors.New("refusing to fetch from a non-public address")

// newImageClient fetches listing photos. It dials public addresses only
// and ignores proxy settings so the check applies to the real peer.
func newImageClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: refusePrivateAddress,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: imageFetchTimeout, Transport: transport}
}

// refusePrivateAddress runs after DNS resolution, on the address about
// to be dialed.
func refusePrivateAddress(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", errPrivateAddress, host)
	}
	return nil
}

// ParseDataURI decodes "data:<mime>;base64,<data>" or bare base64
// (assumed JPEG).
func ParseDataURI(s string) ([]byte, string, error) {
	mimeType := "image/jpeg"
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("data URI has no payload")
		}
		if mt := strings.TrimSuffix(header, ";base64"); mt != "" {
			mimeType = mt
		}
		payload = data
	} else if _, data, ok := strings.Cut(s, ","); ok {
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("image is empty")
	}
	return data, mimeType, nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// priceText renders the price line of an ad.
func priceText(p *models.Property) string {
	if p.TransactionType.UsesTotalPrice() {
		if p.PriceTotal == nil {
			return "قیمت کل: توافقی"
		}
		return "قیمت کل: " + FormatAmount(*p.PriceTotal)
	}
	deposit, rent := "توافقی", "توافقی"
	if p.PriceDeposit != nil {
		deposit = FormatAmount(*p.PriceDeposit)
	}
	if p.PriceRent != nil {
		rent = FormatAmount(*p.PriceRent)
	}
	return "رهن: " + deposit + " / اجاره: " + rent
}

// FormatAmount renders a currency amount with thousands separators.
func FormatAmount(amount float64) string {
	digits := strconv.FormatFloat(models.RoundCurrency(amount), 'f', 0, 64)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
