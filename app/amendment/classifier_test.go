package amendment

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		title    string
		expected Category
	}{
		{"Standards of Quality funding for school divisions", CategoryK12Education},
		{"SOQ rebenchmarking", CategoryK12Education},
		{"Virginia Commonwealth University nursing program", CategoryHigherEducation},
		{"VCU Massey Cancer Center", CategoryHigherEducation},
		{"Free clinic operating support", CategoryUnclassified},
		{"Community health workers", CategoryHealthHuman},
		{"DMAS provider rates", CategoryHealthHuman},
		{"Sheriff deputy compensation", CategoryPublicSafety},
		{"Route 29 bridge replacement", CategoryTransportation},
		{"DEQ stormwater grants", CategoryNaturalResources},
		{"Tourism marketing grants", CategoryCommerceTrade},
		{"VDACS farmland preservation", CategoryAgriculture},
		{"National Guard tuition assistance", CategoryVeteransDefense},
		{"Additional circuit court judges", CategoryJudicial},
		{"Campaign Finance reporting system", CategoryLegislative},
		{"Office of the Attorney General staffing", CategoryAdministration},
		{"Taxation system modernization", CategoryFinance},
		{"VRS contribution rates", CategoryCentralApprop},
		{"Capital outlay: new armory renovation", CategoryCapitalOutlay},
		{"Virginia Lottery operations", CategoryIndependentAgency},
		{"SCC utility rate review", CategoryIndependentAgency},
		{"", CategoryUnclassified},
	}

	for _, tt := range tests {
		if result := Classify(tt.title); result != tt.expected {
			t.Errorf("Classify(%q): expected %s, got %s", tt.title, tt.expected, result)
		}
	}
}

func TestClassify_HigherEducationBeforeK12(t *testing.T) {
	title := "Community college dual enrollment for public school students"
	if result := Classify(title); result != CategoryHigherEducation {
		t.Errorf("Expected %s, got %s", CategoryHigherEducation, result)
	}
}

func TestClassify_CollegeWithSchoolFallsThrough(t *testing.T) {
	// college/university only count as higher ed when "school" is absent
	title := "College readiness program in public school classrooms"
	if result := Classify(title); result != CategoryK12Education {
		t.Errorf("Expected %s, got %s", CategoryK12Education, result)
	}
}

func TestClassify_StripsBillPrefix(t *testing.T) {
	if result := Classify("HB 1234: Campaign Finance Reporting"); result != CategoryLegislative {
		t.Errorf("Expected %s, got %s", CategoryLegislative, result)
	}
	if result := Classify("SB1600 - Rail enhancement fund"); result != CategoryTransportation {
		t.Errorf("Expected %s, got %s", CategoryTransportation, result)
	}
}

func TestClassify_AcronymsNeedWordBoundaries(t *testing.T) {
	// "scc" in "success", "deq" in "adequate", "uva" in "uvalde"
	tests := []string{
		"Student success coaches",
		"Adequate staffing study",
		"Uvalde memorial",
	}

	for _, title := range tests {
		if result := Classify(title); result != CategoryUnclassified {
			t.Errorf("Classify(%q): expected %s, got %s", title, CategoryUnclassified, result)
		}
	}
}

func TestClassify_AlwaysReturnsKnownCategory(t *testing.T) {
	for _, title := range []string{"", "   ", "???", "Lorem ipsum dolor sit amet"} {
		if result := Classify(title); !result.Valid() {
			t.Errorf("Classify(%q) returned unknown category %q", title, result)
		}
	}
}

func TestClassifyAgency(t *testing.T) {
	tests := []struct {
		agency      string
		secretariat string
		expected    Category
	}{
		{"Virginia Lottery", "11", CategoryIndependentAgency},
		{"George Mason University", "Education", CategoryHigherEducation},
		{"Department of Education", "Education", CategoryK12Education},
		{"Department of Medical Assistance Services", "Health and Human Resources", CategoryHealthHuman},
		{"Department of State Police", "", CategoryPublicSafety},
		{"Mystery Office", "", CategoryUnclassified},
	}

	for _, tt := range tests {
		if result := ClassifyAgency(tt.agency, tt.secretariat); result != tt.expected {
			t.Errorf("ClassifyAgency(%q, %q): expected %s, got %s", tt.agency, tt.secretariat, tt.expected, result)
		}
	}
}

func TestCategories(t *testing.T) {
	categories := Categories()
	if len(categories) != 17 {
		t.Fatalf("Expected 17 categories, got %d", len(categories))
	}
	if categories[len(categories)-1].ID != CategoryUnclassified {
		t.Errorf("Expected unclassified last, got %s", categories[len(categories)-1].ID)
	}
	if label := CategoryHigherEducation.Info().ShortLabel; label != "Higher Ed" {
		t.Errorf("Expected short label 'Higher Ed', got %q", label)
	}
}
