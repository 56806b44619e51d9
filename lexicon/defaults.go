package lexicon

import "github.com/giygas/symptom-advisor/entities"

// defaultSymptoms is ordered: classification ties and resolver output follow it.
// body pain precedes stomach ache so a bare "pain" resolves to the general case.
var defaultSymptoms = []SymptomDefinition{
	{
		Key:       entities.SymptomFever,
		Medicines: []string{"paracetamol", "ibuprofen"},
		Synonyms: []PhraseDefinition{
			{"fever", "en"}, {"high temperature", "en"}, {"pyrexia", "en"},
			{"बुखार", "hi"}, {"calor", "es"}, {"fiebre", "es"},
		},
	},
	{
		Key:       entities.SymptomCold,
		Medicines: []string{"cetirizine", "diphenhydramine"},
		Synonyms: []PhraseDefinition{
			{"cold", "en"}, {"runny nose", "en"}, {"sneezing", "en"},
			{"जुकाम", "hi"}, {"resfriado", "es"},
		},
	},
	{
		Key:       entities.SymptomCough,
		Medicines: []string{"guaifenesin", "dextromethorphan"},
		Synonyms: []PhraseDefinition{
			{"cough", "en"}, {"dry cough", "en"}, {"productive cough", "en"},
			{"खांसी", "hi"}, {"tos", "es"},
		},
	},
	{
		Key:       entities.SymptomVomiting,
		Medicines: []string{"ondansetron"},
		Synonyms: []PhraseDefinition{
			{"vomiting", "en"}, {"nausea", "en"},
			{"उल्टी", "hi"}, {"vómito", "es"},
		},
	},
	{
		Key:       entities.SymptomBodyPain,
		Medicines: []string{"ibuprofen", "paracetamol"},
		Synonyms: []PhraseDefinition{
			{"body pain", "en"}, {"body ache", "en"}, {"muscle pain", "en"},
			{"बदन दर्द", "hi"}, {"dolor corporal", "es"},
		},
	},
	{
		Key:       entities.SymptomHeadache,
		Medicines: []string{"acetaminophen", "ibuprofen"},
		Synonyms: []PhraseDefinition{
			{"headache", "en"}, {"migraine", "en"},
			{"सिरदर्द", "hi"}, {"dolor de cabeza", "es"},
		},
	},
	{
		Key:       entities.SymptomStomachAche,
		Medicines: []string{"pantoprazole", "omeprazole"},
		Synonyms: []PhraseDefinition{
			{"stomach ache", "en"}, {"stomach pain", "en"}, {"abdominal pain", "en"},
			{"पेट दर्द", "hi"}, {"dolor de estómago", "es"},
		},
	},
	{
		Key:       entities.SymptomDiarrhea,
		Medicines: []string{"loperamide"},
		Synonyms: []PhraseDefinition{
			{"diarrhea", "en"}, {"diarrhoea", "en"}, {"loose motions", "en"},
			{"दस्त", "hi"}, {"diarrea", "es"},
		},
	},
}

var defaultBrands = map[string]string{
	"paracetamol": "acetaminophen", "dolo": "acetaminophen", "crocin": "acetaminophen",
	"calpol": "acetaminophen", "tylenol": "acetaminophen", "panadol": "acetaminophen",
	"combiflam": "ibuprofen + paracetamol", "nurofen": "ibuprofen", "advil": "ibuprofen",
	"motrin": "ibuprofen", "aspirin": "acetylsalicylic acid", "augmentin": "amoxicillin + clavulanate",
	"amoxil": "amoxicillin", "azithral": "azithromycin", "zithromax": "azithromycin",
	"cipro": "ciprofloxacin", "cefixime": "cefixime", "levoflox": "levofloxacin",
	"doxy": "doxycycline", "flagyl": "metronidazole", "benadryl": "diphenhydramine",
	"mucinex": "guaifenesin", "vicks": "dextromethorphan", "chlorpheniramine": "chlorpheniramine",
	"zyrtec": "cetirizine", "claritin": "loratadine", "allegra": "fexofenadine",
	"zofran": "ondansetron", "emetrol": "phosphorated carbohydrate", "digene": "magnesium hydroxide + simethicone",
	"pantoprazole": "pantoprazole", "omeprazole": "omeprazole", "ranitidine": "ranitidine",
	"pepto": "bismuth subsalicylate", "metformin": "metformin", "glucophage": "metformin",
	"januvia": "sitagliptin", "glimepiride": "glimepiride", "atenolol": "atenolol",
	"amlodipine": "amlodipine", "losartan": "losartan", "telmisartan": "telmisartan",
	"olmesartan": "olmesartan", "viagra": "sildenafil", "calcium sandoz": "calcium carbonate",
	"neurobion": "vitamin B complex",
}

// English first; it is also the pivot language.
var defaultLanguages = []string{"en", "hi", "es", "ta", "te", "bn", "gu", "kn", "mr", "pa"}
