package translation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/translator"
)

// Job walks agenda items of every aggregate and every upcoming meeting and
// fills in missing language keys on their title/description maps.
type Job interface {
	Run(ctx context.Context) error
}

type job struct {
	summaries  domainrepo.IssueSummaryRepository
	meetings   domainrepo.GramSabhaRepository
	panchayats domainrepo.PanchayatRepository
	client     translator.Client
	logger     *zap.Logger
}

// NewJob constructs the agenda translation job
func NewJob(
	summaries domainrepo.IssueSummaryRepository,
	meetings domainrepo.GramSabhaRepository,
	panchayats domainrepo.PanchayatRepository,
	client translator.Client,
	logger *zap.Logger,
) Job {
	return &job{
		summaries:  summaries,
		meetings:   meetings,
		panchayats: panchayats,
		client:     client,
		logger:     logger,
	}
}

func (j *job) Run(ctx context.Context) error {
	if err := j.translateSummaries(ctx); err != nil {
		return err
	}
	return j.translateUpcomingMeetings(ctx)
}

func (j *job) translateSummaries(ctx context.Context) error {
	summaries, err := j.summaries.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		languages, err := j.requiredLanguages(ctx, summary.PanchayatID)
		if err != nil {
			j.logger.Error("translation target lookup failed",
				zap.String("panchayat_id", summary.PanchayatID.String()),
				zap.Error(err),
			)
			continue
		}

		changed := j.translateItems(ctx, summary.AgendaItems, languages)
		if changed == 0 {
			continue
		}
		if err := j.summaries.Save(ctx, summary); err != nil {
			j.logger.Error("failed to save translated summary",
				zap.String("panchayat_id", summary.PanchayatID.String()),
				zap.Error(err),
			)
			continue
		}
		j.logger.Info("summary agenda translations filled",
			zap.String("panchayat_id", summary.PanchayatID.String()),
			zap.Int("fields", changed),
		)
	}
	return nil
}

func (j *job) translateUpcomingMeetings(ctx context.Context) error {
	meetings, err := j.meetings.ListUpcoming(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, meeting := range meetings {
		if err := ctx.Err(); err != nil {
			return err
		}
		languages, err := j.requiredLanguages(ctx, meeting.PanchayatID)
		if err != nil {
			j.logger.Error("translation target lookup failed",
				zap.String("panchayat_id", meeting.PanchayatID.String()),
				zap.Error(err),
			)
			continue
		}

		changed := j.translateItems(ctx, meeting.Agenda, languages)
		if changed == 0 {
			continue
		}
		if err := j.meetings.Update(ctx, meeting); err != nil {
			j.logger.Error("failed to save translated meeting agenda",
				zap.String("gram_sabha_id", meeting.ID.String()),
				zap.Error(err),
			)
			continue
		}
		j.logger.Info("meeting agenda translations filled",
			zap.String("gram_sabha_id", meeting.ID.String()),
			zap.Int("fields", changed),
		)
	}
	return nil
}

// translateItems fills missing keys in place and reports how many fields
// were written. Translation failures leave the key missing for a later run.
func (j *job) translateItems(ctx context.Context, items entities.AgendaItemList, languages []string) int {
	changed := 0
	for i := range items {
		changed += j.fillMissing(ctx, items[i].Title, languages)
		changed += j.fillMissing(ctx, items[i].Description, languages)
	}
	return changed
}

func (j *job) fillMissing(ctx context.Context, text entities.LanguageMap, languages []string) int {
	if len(text) == 0 {
		return 0
	}
	source, sourceText := pickSource(text)
	if sourceText == "" {
		return 0
	}

	filled := 0
	for _, lang := range languages {
		if _, ok := text[lang]; ok {
			continue
		}
		translated, err := j.client.Translate(ctx, sourceText, source, lang)
		if err != nil {
			j.logger.Warn("translation failed",
				zap.String("source_language", source),
				zap.String("target_language", lang),
				zap.Error(err),
			)
			continue
		}
		text[lang] = translated
		filled++
	}
	return filled
}

// requiredLanguages is English, Hindi and the panchayat's own language
func (j *job) requiredLanguages(ctx context.Context, panchayatID uuid.UUID) ([]string, error) {
	panchayat, err := j.panchayats.FindByID(ctx, panchayatID)
	if err != nil {
		return nil, err
	}

	languages := []string{"en", "hi"}
	if panchayat != nil {
		primary := entities.LanguageCode(panchayat.SummaryLanguage())
		found := false
		for _, lang := range languages {
			if lang == primary {
				found = true
			}
		}
		if !found {
			languages = append(languages, primary)
		}
	}
	return languages, nil
}

// pickSource prefers English as the translation source, then any present key
func pickSource(text entities.LanguageMap) (string, string) {
	if v, ok := text["en"]; ok && v != "" {
		return "en", v
	}
	keys := make([]string, 0, len(text))
	for k := range text {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if text[k] != "" {
			return k, text[k]
		}
	}
	return "", ""
}
