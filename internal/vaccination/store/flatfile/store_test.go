package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vaxreg/internal/vaccination/models"
)

type FlatFileStoreSuite struct {
	suite.Suite
	dir   string
	store *Store
	ctx   context.Context
}

func TestFlatFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FlatFileStoreSuite))
}

func (s *FlatFileStoreSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.store = New(s.dir)
	s.ctx = context.Background()
}

func (s *FlatFileStoreSuite) writeFile(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644))
}

func (s *FlatFileStoreSuite) readFile(name string) string {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	s.Require().NoError(err)
	return string(raw)
}

// TestRoundTrip verifies saving then loading yields field-for-field equal records.
func (s *FlatFileStoreSuite) TestRoundTrip() {
	s.Run("citizens", func() {
		in := []models.Citizen{
			{Person: models.Person{Name: "Asha Patil", Age: 34, Phone: "9876543210"}, ID: "123456789012", Dose1Completed: true},
			{Person: models.Person{Name: "Kale, Vinod", Age: 61, Phone: "9123456780"}, ID: "210987654321", Dose1Completed: true, Dose2Completed: true},
			{Person: models.Person{Name: "", Age: 12, Phone: "9000000000"}, ID: "000000000001"},
		}
		s.Require().NoError(s.store.SaveCitizens(s.ctx, in))

		out, report, err := s.store.LoadCitizens(s.ctx)
		s.Require().NoError(err)
		s.ElementsMatch(in, out)
		s.Equal(3, report.Loaded)
		s.Zero(report.SkippedCount())
	})

	s.Run("centers", func() {
		in := []models.Center{
			{ID: "C001", Name: "City Hospital", Location: "Solapur", DailyCapacity: 5},
			{ID: "C002", Name: "Health Clinic", Location: "Solapur East", DailyCapacity: 3},
		}
		s.Require().NoError(s.store.SaveCenters(s.ctx, in))

		out, _, err := s.store.LoadCenters(s.ctx)
		s.Require().NoError(err)
		s.ElementsMatch(in, out)
		s.Equal("C001,City Hospital,Solapur,5\nC002,Health Clinic,Solapur East,3\n", s.readFile(CentersFile))
	})

	s.Run("appointments", func() {
		in := []models.Appointment{
			{ID: "a1", CitizenID: "123456789012", CenterID: "C001", Dose: models.DoseFirst, Date: models.MustDate(2024, time.January, 10)},
			{ID: "a2", CitizenID: "123456789012", CenterID: "C002", Dose: models.DoseSecond, Date: models.MustDate(2024, time.February, 7)},
		}
		s.Require().NoError(s.store.SaveAppointments(s.ctx, in))

		out, _, err := s.store.LoadAppointments(s.ctx)
		s.Require().NoError(err)
		s.ElementsMatch(in, out)
		s.Equal("a1,123456789012,C001,FIRST,2024-01-10\na2,123456789012,C002,SECOND,2024-02-07\n", s.readFile(AppointmentsFile))
	})
}

// TestMissingFiles verifies a missing file loads as an empty collection.
func (s *FlatFileStoreSuite) TestMissingFiles() {
	citizens, report, err := s.store.LoadCitizens(s.ctx)
	s.Require().NoError(err)
	s.Empty(citizens)
	s.Equal(models.CollectionCitizens, report.Collection)

	centers, _, err := s.store.LoadCenters(s.ctx)
	s.Require().NoError(err)
	s.Empty(centers)

	appts, _, err := s.store.LoadAppointments(s.ctx)
	s.Require().NoError(err)
	s.Empty(appts)
}

// TestMalformedLines verifies bad lines are reported, not dropped silently,
// and never stop the rest of the file from loading.
func (s *FlatFileStoreSuite) TestMalformedLines() {
	s.Run("citizens", func() {
		s.writeFile(CitizensFile, "Asha,34,9876543210,123456789012,true,false\n"+
			"Bad Age,abc,9876543210,123456789013,false,false\n"+
			"\n"+
			"Too,Few,Fields\n"+
			"Child,8,9876543210,123456789014,false,false\n"+
			"Yes Flag,40,9876543210,123456789015,yes,false\n"+
			"Dup,50,9876543210,123456789012,false,false\n"+
			"Vinod,61,9123456780,210987654321,true,true\r\n")

		out, report, err := s.store.LoadCitizens(s.ctx)
		s.Require().NoError(err)
		s.Len(out, 2)
		s.Equal(2, report.Loaded)
		s.Equal(5, report.SkippedCount())

		lines := make([]int, 0, len(report.Skipped))
		for _, rec := range report.Skipped {
			lines = append(lines, rec.Line)
			s.NotEmpty(rec.Reason)
		}
		s.Equal([]int{2, 4, 5, 6, 7}, lines)
	})

	s.Run("centers with non-positive capacity", func() {
		s.writeFile(CentersFile, "C001,City Hospital,Solapur,5\nC002,Clinic,East,0\n,Blank,Nowhere,3\n")

		out, report, err := s.store.LoadCenters(s.ctx)
		s.Require().NoError(err)
		s.Len(out, 1)
		s.Equal(2, report.SkippedCount())
	})

	s.Run("appointments with legacy dose names and bad dates", func() {
		s.writeFile(AppointmentsFile, "a1,123456789012,C001,DOSE1,2024-01-10\n"+
			"a2,123456789012,C001,DOSE3,2024-01-10\n"+
			"a3,123456789012,C001,SECOND,10/01/2024\n")

		out, report, err := s.store.LoadAppointments(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(models.DoseFirst, out[0].Dose)
		s.Equal(2, report.SkippedCount())
	})
}

// TestSaveIsFullRewrite verifies a save replaces the previous contents.
func (s *FlatFileStoreSuite) TestOverlongLineIsSkipped() {
	long := strings.Repeat("x", 2*maxLineBytes)
	s.writeFile(CitizensFile,
		"Asha,34,9876543210,123456789012,false,false\n"+
			long+"\n"+
			"Vinod,61,9123456780,210987654321,true,false")

	out, report, err := s.store.LoadCitizens(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("123456789012", out[0].ID)
	s.Equal("210987654321", out[1].ID, "the final line has no trailing newline")
	s.Equal(2, report.Loaded)
	s.Require().Len(report.Skipped, 1)
	s.Equal(2, report.Skipped[0].Line)
	s.Equal("line too long", report.Skipped[0].Reason)
	s.Len(report.Skipped[0].Raw, rawPrefixBytes)
}

func (s *FlatFileStoreSuite) TestSaveIsFullRewrite() {
	first := []models.Center{{ID: "C001", Name: "A", Location: "X", DailyCapacity: 1}}
	second := []models.Center{{ID: "C002", Name: "B", Location: "Y", DailyCapacity: 2}}
	s.Require().NoError(s.store.SaveCenters(s.ctx, first))
	s.Require().NoError(s.store.SaveCenters(s.ctx, second))

	out, _, err := s.store.LoadCenters(s.ctx)
	s.Require().NoError(err)
	s.Equal(second, out)

	s.Require().NoError(s.store.SaveCenters(s.ctx, nil))
	s.Equal("", s.readFile(CentersFile))
}

// TestFailedSaveLeavesNoTempFiles verifies a failed replace cleans up after itself.
func (s *FlatFileStoreSuite) TestFailedSaveLeavesNoTempFiles() {
	// A non-empty directory at the target path makes the final rename fail.
	target := filepath.Join(s.dir, CitizensFile)
	s.Require().NoError(os.MkdirAll(filepath.Join(target, "occupied"), 0o755))

	err := s.store.SaveCitizens(s.ctx, []models.Citizen{{ID: "123456789012", Person: models.Person{Age: 20, Phone: "9876543210"}}})
	s.Require().Error(err)

	leftovers, globErr := filepath.Glob(filepath.Join(s.dir, ".citizens.csv.tmp-*"))
	s.Require().NoError(globErr)
	s.Empty(leftovers)
}

func (s *FlatFileStoreSuite) TestSaveCreatesDataDir() {
	store := New(filepath.Join(s.dir, "nested", "data"))
	s.Require().NoError(store.SaveCenters(s.ctx, []models.Center{{ID: "C001", Name: "A", Location: "X", DailyCapacity: 1}}))

	out, _, err := store.LoadCenters(s.ctx)
	s.Require().NoError(err)
	s.Len(out, 1)
}

func (s *FlatFileStoreSuite) TestSaveHonoursCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.ErrorIs(s.store.SaveCenters(ctx, nil), context.Canceled)
}
