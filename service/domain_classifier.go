package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"nyayguru-backend/models"
)

// domainCorpus holds one keyword-dense pseudo-document per legal domain.
// The classifier scores queries against these with BM25 and, when an
// embedder is available, blends in cosine similarity against their cached
// embeddings.
var domainCorpus = map[string]string{
	models.DomainTraffic: `
		Traffic laws, motor vehicle rules, driving violations, accidents on road, challan,
		driving license, vehicle registration RC, traffic signals, red light jumping,
		overspeeding, helmet rules, seatbelt requirements, drunk driving penalties,
		overloading of vehicles, RTO office rules, hit and run cases, parking violations,
		no entry zones, zebra crossing, vehicle insurance, pollution certificate PUC,
		one way driving, transport department, motor vehicle act MVA, road safety regulations,
		pedestrian safety, hitting a pedestrian, walking on road, death by accident,
		rash driving, negligent driving, vehicle collision, motor accident claims tribunal MACT,
		third party insurance, driving without license, minor driving, speeding fine.
	`,
	models.DomainCriminal: `
		Criminal law, Indian Penal Code IPC, Bharatiya Nyaya Sanhita BNS, murder, theft,
		burglary, robbery, kidnapping, assault, battery, rape, sexual offenses, molestation,
		police FIR, arrest procedures, bail applications, jail, prison, punishment,
		death penalty, homicide, fraud, cheating, extortion, bribery, corruption,
		terrorism UAPA, drugs NDPS, arms act, conspiracy, abetment, criminal procedure code CrPC,
		BNSS, BNSS procedure, confession, trial, prosecution, magistrate, cognizable offense,
		non bailable warrant, section 302, section 307, attempt to murder, culpable homicide,
		causing death by negligence, criminal force, criminal trespass, forgery, defamation criminal.
	`,
	models.DomainCivilFamily: `
		Civil law, family law, marriage, divorce, alimony, child custody, maintenance,
		hindu marriage act, special marriage act, christian marriage, muslim personal law,
		domestic violence, dowry prohibition act, will, inheritance, probate, succession,
		adoption, guardianship, partition of family property, restitution of conjugal rights,
		annulment, contract disputes, consumer protection, torts, negligence, defamation,
		civil procedure code CPC, summary suit, injunction, specific performance, breach of contract,
		small causes court, civil appeal, legal notice.
	`,
	models.DomainCorporate: `
		Corporate law, companies act, SEBI regulations, business contracts, agreements,
		mergers and acquisitions, M&A, taxation, income tax, GST, shareholder rights,
		directors duties, boardroom disputes, insolvency and bankruptcy code IBC,
		ROC filings, MCA website, auditing, corporate governance, partnership, LLP,
		limited liability partnership, tender, bidding, arbitration and conciliation,
		commercial courts, trade marks, MSME, intellectual property IPR, copyright, patent,
		corporate social responsibility CSR, company formation, board of directors.
	`,
	models.DomainITCyber: `
		Information Technology act, IT Act, cyber law, hacking, phishing, data privacy,
		identity theft, computer fraud, online harassment, social media defamation,
		cyberbullying, deepfake, cryptocurrency, bitcoin, crypto regulation,
		digital evidence, electronic records, password theft, server breach,
		malware, virus, spamming, cyber stalking, DPDP act, digital personal data protection,
		social media intermediary rules, ecommerce regulations, dark web, encryption.
	`,
	models.DomainProperty: `
		Property law, land ownership, real estate, RERA, registration act, transfer of property act TPA,
		lease, rent, tenant, landlord, eviction process, sale deed, stamp duty, mutation,
		khata, registry, encroachment, housing board, building plan sanction,
		adverse possession, partition deed, gift deed, power of attorney POA,
		mortgage, hypothecation, easement rights, free hold, lease hold properties.
	`,
	models.DomainConstitutional: `
		Constitutional law of India, fundamental rights, directive principles,
		article 32, article 226, writ petitions, habeas corpus, mandamus, certiorari,
		PIL, public interest litigation, supreme court of India, high court,
		freedom of speech, right to privacy, reservation policy, election law,
		federalism, center state relations, governor powers, president of India,
		parliamentary procedure, speaker, emergency powers, constitutional amendments,
		judicial review, secularism, preamble.
	`,
	models.DomainEnvironment: `
		Environment protection act, pollution control, NGT, national green tribunal,
		forest conservation, wildlife protection, air pollution, water pollution act,
		environmental clearance, EIA, climate change, carbon emission, plastic waste,
		hazardous waste management, coastal regulation zone CRZ, sanitation, noise pollution,
		sustainable development, bio diversity act, global warming, forest rights.
	`,
}

// DomainClassifier predicts the legal domain of a query by fusing BM25
// keyword scores with semantic similarity against cached domain embeddings.
type DomainClassifier struct {
	embedder Embedder
	logger   *zap.Logger

	domains []string
	corpus  []string

	mu         sync.Mutex
	embeddings map[string][]float64
}

// NewDomainClassifier creates a classifier. A nil embedder is allowed; the
// classifier then scores on BM25 alone.
func NewDomainClassifier(embedder Embedder, logger *zap.Logger) *DomainClassifier {
	c := &DomainClassifier{
		embedder:   embedder,
		logger:     logger,
		embeddings: make(map[string][]float64),
	}
	for _, d := range models.AllDomains {
		c.domains = append(c.domains, d)
		c.corpus = append(c.corpus, domainCorpus[d])
	}
	return c
}

func (c *DomainClassifier) domainEmbeddings(ctx context.Context) map[string][]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.embeddings) > 0 {
		return c.embeddings
	}
	for i, d := range c.domains {
		vec, err := c.embedder.EmbedDocument(ctx, c.corpus[i])
		if err != nil {
			c.logger.Warn("failed to embed domain corpus", zap.String("domain", d), zap.Error(err))
			c.embeddings = make(map[string][]float64)
			return nil
		}
		c.embeddings[d] = vec
	}
	return c.embeddings
}

// Classify returns the best-matching domain, its confidence, and the full
// per-domain score map. Scores are deterministic for a fixed query when no
// embedder is configured.
func (c *DomainClassifier) Classify(ctx context.Context, query string) (string, float64, map[string]float64) {
	queryTokens := tokenize(query)

	bm25Scores := scoreTexts(query, c.corpus)
	maxBM25 := 0.0
	for _, s := range bm25Scores {
		if s > maxBM25 {
			maxBM25 = s
		}
	}
	if maxBM25 > 0 {
		for i := range bm25Scores {
			bm25Scores[i] /= maxBM25
		}
	}

	semanticScores := make([]float64, len(c.domains))
	if c.embedder != nil {
		if embeddings := c.domainEmbeddings(ctx); embeddings != nil {
			queryVec, err := c.embedder.EmbedQuery(ctx, query)
			if err != nil {
				c.logger.Warn("query embedding failed, skipping semantic scoring", zap.Error(err))
			} else {
				for i, d := range c.domains {
					semanticScores[i] = cosineSimilarity(queryVec, embeddings[d])
				}
			}
		}
	}

	// Short queries carry little intent for the embedder, lean on keywords.
	bm25Weight, semWeight := 0.5, 0.5
	if len(queryTokens) <= 3 {
		bm25Weight, semWeight = 0.7, 0.3
	}

	scores := make(map[string]float64, len(c.domains))
	best := c.domains[0]
	bestScore := -1.0
	for i, d := range c.domains {
		s := bm25Weight*bm25Scores[i] + semWeight*semanticScores[i]
		scores[d] = s
		if s > bestScore {
			best, bestScore = d, s
		}
	}

	c.logger.Info("classified query domain",
		zap.String("domain", best),
		zap.Float64("confidence", bestScore))
	return best, bestScore, scores
}
