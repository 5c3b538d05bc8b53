// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"regexp"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// Shared regular expression fragments. Case name fragments are case
// sensitive so that party names must start with a capital letter.
const (
	// leadIn consumes an introductory signal so it stays outside the cite group.
	leadIn = `(?:(?:See(?:,?\s+e\.g\.,|\s+also|\s+generally)?|But\s+see|But\s+cf\.|Cf\.|Accord|Contra|Compare|E\.g\.,|In|And|Also)\s+)?`

	partyWord = `[A-Z][\w&.'’-]*`
	connector = `(?:of|the|and|for|ex\s+rel\.|de|del|la|von|van|der|on|to)`
	party     = partyWord + `(?:,?\s+(?:` + partyWord + `|` + connector + `))*`
	versus    = `\s+(?:v\.|vs\.|versus)\s+`

	ordinal  = `\d+(?:st|nd|rd|th|d)`
	reporter = `[A-Z][A-Za-z.']*(?:\s?(?:[A-Z][A-Za-z.']*|` + ordinal + `))*`
	pins     = `(?:,\s*(?:at\s+)?\d+(?:\s*[-–]\s*\d+)?)*`
	courtYr  = `(?:\s+\([^()]*?\d{4}\))?`

	states = `(?:Ala|Alaska|Ariz|Ark|Cal|Colo|Conn|Del|D\.\s?C|Fla|Ga|Haw|Idaho|Ill|Ind|Iowa|Kan|Ky|La|Me|Md|Mass|Mich|Minn|Miss|Mo|Mont|Neb|Nev|N\.\s?H|N\.\s?J|N\.\s?M|N\.\s?Y|N\.\s?C|N\.\s?D|Ohio|Okla|Or|Pa|R\.\s?I|S\.\s?C|S\.\s?D|Tenn|Tex|Utah|Vt|Va|Wash|W\.\s?Va|Wis|Wyo)\.?`

	sectionMark = `(?:§§?|[Ss]ections?|[Ss]ecs?\.|[Ss]ect\.)`
	section     = `\d+[A-Za-z0-9]*(?:[.:-][A-Za-z0-9]+)*`
	subsections = `(?:\([A-Za-z0-9]+\))*`

	author  = `[A-Z][A-Za-z.'’-]*(?:\s+(?:&\s+)?[A-Z][A-Za-z.'’-]*)*`
	edition = `\s+\((?:` + ordinal + `\s+ed\.\s+)?\d{4}\)`
)

func rule(expr string, category types.Category, description string, shortForm bool) Pattern {
	return Pattern{
		Regexp:      regexp.MustCompile(expr),
		Category:    category,
		Description: description,
		ShortForm:   shortForm,
	}
}

// builtinPatterns returns the stock rule set in declaration order.
func builtinPatterns() []Pattern {
	return []Pattern{
		// Cases.
		rule(`\b`+leadIn+`(?P<cite>`+party+versus+party+`,?\s+\d+\s+`+reporter+`\s+\d+`+pins+courtYr+`)`,
			types.Cases, "Full case citation: Brown v. Board of Education, 347 U.S. 483 (1954)", false),
		rule(`\b`+leadIn+`(?P<cite>(?:In\s+re|Ex\s+parte)\s+`+party+`,?\s+\d+\s+`+reporter+`\s+\d+`+pins+courtYr+`)`,
			types.Cases, "In re / Ex parte case citation: In re Gault, 387 U.S. 1 (1967)", false),
		rule(`\b(?P<cite>(?:Id|id|Ibid)\.(?:,?\s+at\s+\d+(?:\s*[-–]\s*\d+)?)?)`,
			types.Cases, "Id. short form: Id. at 100", true),
		rule(`\b(?P<cite>[A-Z][A-Za-z'’-]+,\s+supra(?:,?\s+(?:note\s+\d+,?\s+)?at\s+\d+(?:\s*[-–]\s*\d+)?)?)`,
			types.Cases, "Supra short form: Brown, supra, at 495", true),
		rule(`\b(?P<cite>[A-Z][A-Za-z'’-]+,\s+\d+\s+`+reporter+`\s+at\s+\d+(?:\s*[-–]\s*\d+)?)`,
			types.Cases, "Short case form: Brown, 347 U.S. at 485", true),

		// Statutes.
		rule(`\b(?P<cite>\d+\s+U\.?\s?S\.?\s?C\.?(?:\s?A\.?)?\s*`+sectionMark+`\s*`+section+subsections+courtYr+`)`,
			types.Statutes, "United States Code: 42 U.S.C. § 1983", false),
		rule(`\b(?P<cite>`+states+`(?:\s+(?:[A-Z][A-Za-z.&']*|&)){1,6}\s*§§?\s*`+section+subsections+courtYr+`)`,
			types.Statutes, "State code: Cal. Civ. Code § 1542", false),
		rule(`\b(?P<cite>\d+\s+ILCS\s+\d+/`+section+subsections+`)`,
			types.Statutes, "Illinois compiled statutes: 735 ILCS 5/2-1401", false),

		// Constitutional provisions.
		rule(`\b(?P<cite>(?:U\.\s?S\.|`+states+`)\s+Const\.\s+(?:art\.|amend\.)\s+(?:[IVXLCDM]+|\d+)(?:,\s*§§?\s*\d+)?(?:,\s*cl\.\s*\d+)?)`,
			types.Constitutional, "Constitution article or amendment: U.S. Const. amend. XIV, § 1", false),

		// Rules.
		rule(`\b(?P<cite>(?:Fed\.|`+states+`)\s*R\.\s*(?:Civ\.|Crim\.|App\.|Evid\.|Bankr\.)\s*(?:P\.\s*)?\d+(?:\.\d+)*`+subsections+`)`,
			types.Rules, "Procedure or evidence rule: Fed. R. Civ. P. 12(b)(6)", false),
		rule(`\b(?P<cite>Cal\.\s+Rules\s+of\s+Court,\s+rules?\s+\d+(?:\.\d+)*`+subsections+`)`,
			types.Rules, "California Rules of Court: Cal. Rules of Court, rule 8.204", false),
		rule(`\b(?P<cite>Sup\.\s?Ct\.\s?R\.\s*\d+(?:\.\d+)*`+subsections+`)`,
			types.Rules, "Supreme Court rule: Sup. Ct. R. 10", false),

		// Regulations.
		rule(`\b(?P<cite>\d+\s+C\.?\s?F\.?\s?R\.?\s*(?:§§?|[Pp]art|pt\.)\s*`+section+subsections+`)`,
			types.Regulations, "Code of Federal Regulations: 28 C.F.R. § 35.130", false),
		rule(`\b(?P<cite>\d+\s+Fed\.\s?Reg\.\s+\d[\d,]*\d(?:,\s*\d[\d,]*)?`+courtYr+`)`,
			types.Regulations, "Federal Register: 85 Fed. Reg. 12345 (Mar. 1, 2020)", false),

		// Treatises and secondary sources.
		rule(`\b`+leadIn+`(?P<cite>(?:\d+\s+)?`+author+`,\s+[A-Z][A-Za-z.'’:-]*(?:\s+[A-Za-z.'’:&-]+)*?\s+§§?\s*`+section+edition+`)`,
			types.Treatises, "Treatise: 5 Wright & Miller, Federal Practice and Procedure § 1357 (3d ed. 2004)", false),
		rule(`\b(?P<cite>Restatement\s+\((?:First|Second|Third|Fourth)\)\s+of\s+(?:the\s+)?[A-Z][A-Za-z]*(?:\s+(?:[A-Z][A-Za-z]*|of|and|the|&))*\s+§§?\s*\d+[A-Za-z]?(?:\.\d+)*(?:\s+cmt\.\s+[a-z])?)`,
			types.Treatises, "Restatement: Restatement (Second) of Torts § 402A", false),
		rule(`\b`+leadIn+`(?P<cite>`+author+`,\s+[A-Z][^,()]*?,\s+\d+\s+(?:[A-Z][A-Za-z.&']*\s?)*?(?:L\.\s?Rev\.|L\.\s?J\.|Rev\.|J\.)\s+\d+(?:,\s*\d+(?:\s*[-–]\s*\d+)?)?\s+\(\d{4}\))`,
			types.Treatises, "Law review article: Jane Doe, Legal Theory, 100 Harv. L. Rev. 123 (2020)", false),
	}
}
