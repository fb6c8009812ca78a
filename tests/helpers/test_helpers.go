// Package helpers provides shared fixtures for service and handler tests.
package helpers

import (
	"bytes"
	"fmt"
	"math/rand"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

// TestPassword is the plain password of every seeded user.
const TestPassword = "Secret123!"

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, RandomString(6))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// RandomString returns n random alphanumerics
func RandomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// RandomEmail returns a unique test address
func RandomEmail() string {
	return "user-" + RandomString(8) + "@example.com"
}

// RandomPhone returns a phone number
func RandomPhone() string {
	return fmt.Sprintf("+25078%07d", rand.Intn(10000000))
}

func hashedPassword(t *testing.T) string {
	t.Helper()
	// minimum cost keeps seeding fast
	hash, err := crypto.NewPasswordHasher(4).Hash(TestPassword)
	require.NoError(t, err)
	return hash
}

// SeedClient creates an active client user with its profile.
func SeedClient(t *testing.T, db *gorm.DB) (*models.User, *models.Client) {
	t.Helper()
	user := &models.User{Email: RandomEmail(), PasswordHash: hashedPassword(t), Role: models.RoleClient, Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	client := &models.Client{UserID: user.ID, FirstName: "Client", LastName: RandomString(4), PhoneNumber: RandomPhone()}
	require.NoError(t, db.Create(client).Error)
	return user, client
}

// SeedAgent creates an agent user and profile with the given statuses.
func SeedAgent(t *testing.T, db *gorm.DB, userStatus models.UserStatus, agentStatus models.AgentStatus) (*models.User, *models.Agent) {
	t.Helper()
	user := &models.User{Email: RandomEmail(), PasswordHash: hashedPassword(t), Role: models.RoleAgent, Status: userStatus}
	require.NoError(t, db.Create(user).Error)
	agent := &models.Agent{
		UserID:       user.ID,
		FirstName:    "Agent",
		LastName:     RandomString(4),
		PhoneNumber:  RandomPhone(),
		ReferralCode: strings.ToUpper(RandomString(8)),
		Status:       agentStatus,
	}
	require.NoError(t, db.Create(agent).Error)
	return user, agent
}

// SeedApprovedAgent creates an active, approved agent.
func SeedApprovedAgent(t *testing.T, db *gorm.DB) (*models.User, *models.Agent) {
	return SeedAgent(t, db, models.UserStatusActive, models.AgentStatusApproved)
}

// SeedAdmin creates an active admin with a profile.
func SeedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Email: RandomEmail(), PasswordHash: hashedPassword(t), Role: models.RoleAdmin, Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.AdminProfile{UserID: user.ID, FirstName: "Admin"}).Error)
	return user
}

// NewTestAccommodation returns an unsaved apartment listing.
func NewTestAccommodation(city string) *models.Accommodation {
	price := 45.0
	return &models.Accommodation{
		Type:          models.AccommodationApartment,
		Name:          "Apartment " + RandomString(4),
		Description:   "Two bedrooms",
		City:          city,
		District:      "Gasabo",
		PricePerNight: &price,
	}
}

// NewTestVehicle returns an unsaved rental vehicle.
func NewTestVehicle(brand string) *models.Vehicle {
	rate := 60.0
	return &models.Vehicle{
		Purpose:         models.VehiclePurposeRent,
		Make:            brand,
		Model:           "Model " + RandomString(3),
		Year:            2021,
		VehicleType:     "suv",
		Transmission:    "automatic",
		FuelType:        "petrol",
		SeatingCapacity: 5,
		DailyRate:       &rate,
	}
}

// SeedAccommodation saves an accommodation.
func SeedAccommodation(t *testing.T, db *gorm.DB) *models.Accommodation {
	t.Helper()
	item := NewTestAccommodation("Kigali")
	require.NoError(t, db.Create(item).Error)
	return item
}

// SeedVehicle saves a vehicle.
func SeedVehicle(t *testing.T, db *gorm.DB) *models.Vehicle {
	t.Helper()
	item := NewTestVehicle("Toyota")
	require.NoError(t, db.Create(item).Error)
	return item
}

// SeedBooking saves an accommodation booking for the client.
func SeedBooking(t *testing.T, db *gorm.DB, clientID string, status models.BookingStatus) *models.Booking {
	t.Helper()
	acc := SeedAccommodation(t, db)
	booking := &models.Booking{
		BookingType:      models.BookingTypeAccommodation,
		BookingReference: "RR" + strings.ToUpper(RandomString(9)),
		ClientID:         clientID,
		AccommodationID:  &acc.ID,
		TotalAmount:      90,
		BookingStatus:    status,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

// PNGBytes is a minimal PNG header, enough for content sniffing.
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// UploadFile is one part of a multipart test body.
type UploadFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// MultipartBody encodes fields and files and returns the body with its content type.
func MultipartBody(t *testing.T, fields map[string]string, files ...UploadFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// FileHeaders parses a multipart body and returns the headers of a file field.
func FileHeaders(t *testing.T, field string, files ...UploadFile) []*multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, nil, files...)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}

// PNGFile returns a valid png upload for field
func PNGFile(field, name string) UploadFile {
	return UploadFile{Field: field, Name: name, ContentType: "image/png", Data: PNGBytes}
}
