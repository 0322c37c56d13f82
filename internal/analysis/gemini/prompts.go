package gemini

import (
	"fmt"
	"strings"
)

const matchPromptTemplate = `You are an expert resume analyst and career advisor. Analyze the following resume against the provided job description.

RESUME:
%s

JOB DESCRIPTION:
%s

Provide a comprehensive analysis as a JSON object with EXACTLY the following structure:

{
  "score": 75,
  "summary_insights": {
    "overall_grade": "B",
    "ats_readiness": 85,
    "competitiveness": 70,
    "experience_level": {"resume_level": "Mid-level", "job_level": "Mid-level", "match": true, "mismatch_details": ""},
    "top_strengths": ["..."],
    "priority_actions": [{"priority": "High", "area": "Skills", "recommendation": "..."}]
  },
  "comprehensive_analysis": {
    "overall_score": 75,
    "detailed_metrics": {
      "relevance": {"score": 80, "details": {"experience_match": 85, "education_match": 75}},
      "ats_compatibility": {"score": 70, "details": {"keyword_density": 65, "format_score": 75}},
      "content_quality": {"score": 75, "details": {"clarity": 70, "impact": 80}},
      "skills_alignment": {"score": 65, "details": {"matching_skills_percentage": 65, "missing_critical_skills": 4}}
    },
    "strengths": ["..."],
    "weaknesses": ["..."],
    "improvement_suggestions": ["..."]
  },
  "ats_analysis": {
    "score": 75,
    "format_issues": ["..."],
    "keyword_match": {"percentage": 65, "matches": ["..."], "missing": ["..."]},
    "recommendations": ["..."]
  },
  "skills_analysis": {"matching_skills": ["..."], "missing_skills": ["..."], "additional_skills": ["..."]},
  "section_feedback": {
    "contact_information": "...",
    "professional_summary": "...",
    "work_experience": "...",
    "education": "...",
    "skills": "...",
    "projects": "...",
    "certifications": "..."
  },
  "industry_insights": {"industry_trends": ["..."], "recommendations": ["..."]},
  "gap_analysis": {"identified_gaps": ["..."], "learning_paths": [{"gap": "...", "recommendations": ["..."]}]}
}

Ensure ALL keys are present even if values are empty arrays or default values. DO NOT include any explanation or text outside the JSON structure.`

const overallPromptTemplate = `You are an expert resume analyst and career advisor. Analyze the following resume to provide comprehensive overall insights about its quality, effectiveness, and areas for improvement.

RESUME:
%s

Provide a comprehensive overall analysis as a JSON object with EXACTLY the following structure:

{
  "overall_score": 75,
  "summary_insights": {
    "overall_grade": "B",
    "ats_readiness": 85,
    "market_competitiveness": 70,
    "professional_presentation": 80,
    "experience_level": "Mid-level",
    "top_strengths": ["..."],
    "priority_improvements": [{"priority": "High", "area": "Skills", "recommendation": "..."}]
  },
  "detailed_analysis": {
    "content_quality": {"score": 75, "details": {"clarity_and_impact": 70, "achievement_quantification": 65, "keyword_optimization": 80, "professional_language": 85}},
    "structure_and_format": {"score": 80, "details": {"organization": 85, "readability": 75, "consistency": 80, "visual_appeal": 70}},
    "ats_compatibility": {"score": 70, "details": {"format_compatibility": 75, "keyword_density": 65, "section_headers": 80, "file_structure": 70}},
    "completeness": {"score": 85, "details": {"essential_sections": 90, "contact_information": 95, "work_history": 80, "skills_coverage": 75}}
  },
  "section_analysis": {
    "contact_information": {"score": 95, "feedback": "...", "suggestions": ["..."]},
    "professional_summary": {"score": 75, "feedback": "...", "suggestions": ["..."]},
    "work_experience": {"score": 70, "feedback": "...", "suggestions": ["..."]},
    "education": {"score": 85, "feedback": "...", "suggestions": ["..."]},
    "skills": {"score": 65, "feedback": "...", "suggestions": ["..."]},
    "projects": {"score": 70, "feedback": "...", "suggestions": ["..."]},
    "certifications": {"score": 80, "feedback": "...", "suggestions": ["..."]}
  },
  "strengths": ["..."],
  "improvement_areas": ["..."],
  "ats_analysis": {"score": 75, "strengths": ["..."], "issues": ["..."], "recommendations": ["..."]},
  "industry_insights": {"current_trends": ["..."], "skill_recommendations": ["..."], "market_positioning": "..."},
  "actionable_recommendations": [{"category": "Content", "priority": "High", "action": "...", "impact": "..."}]
}

Classify the resume's experience level as Junior, Mid-level, or Senior. Ensure ALL keys are present even if values are empty arrays or default values. DO NOT include any explanation or text outside the JSON structure.`

const improvePromptTemplate = `You are an expert resume writer and career coach. I need you to improve a %s section of a resume.

SECTION TYPE: %s
CONTEXT: %s
IMPROVEMENT FOCUS: %s

ORIGINAL TEXT:
%s

Please provide comprehensive improvement suggestions as a JSON object with EXACTLY the following structure:

{
  "improved_text": "The completely rewritten and improved version of the section text",
  "improvement_score": 85,
  "key_improvements": ["..."],
  "analysis": {
    "original_strengths": ["..."],
    "original_weaknesses": ["..."],
    "improvements_made": [{"category": "Content", "change": "...", "reason": "..."}]
  },
  "formatting_suggestions": ["..."],
  "ats_optimization": {"keyword_density": 75, "suggested_keywords": ["..."], "formatting_score": 80},
  "alternatives": [{"version": "Professional Version", "text": "..."}],
  "tips": ["..."]
}

Use strong action verbs, quantify achievements where possible, and optimize for applicant tracking systems. Ensure ALL keys are present even if values are empty arrays or default values. DO NOT include any explanation or text outside the JSON structure.`

type sectionPrompt struct {
	title   string
	context string
	focus   string
}

var sectionPrompts = map[string]sectionPrompt{
	"summary": {
		title:   "Professional Summary",
		context: "This is a professional summary/objective section that should be compelling, concise, and tailored to showcase the candidate's value proposition.",
		focus:   "Make it more impactful, quantify achievements, highlight key strengths, and ensure it's ATS-friendly.",
	},
	"experience": {
		title:   "Work Experience",
		context: "This is a work experience section that should showcase achievements, responsibilities, and impact in previous roles.",
		focus:   "Use action verbs, quantify achievements with metrics, show progression, and highlight relevant accomplishments.",
	},
	"skills": {
		title:   "Skills Section",
		context: "This is a skills section that should list technical and soft skills relevant to the target role.",
		focus:   "Organize skills by category, prioritize relevant skills, include trending technologies, and ensure keyword optimization.",
	},
	"education": {
		title:   "Education",
		context: "This is an education section that should highlight academic achievements, relevant coursework, and certifications.",
		focus:   "Highlight relevant coursework, academic achievements, certifications, and any honors or distinctions.",
	},
	"projects": {
		title:   "Projects",
		context: "This is a projects section that should showcase personal or professional projects demonstrating skills and experience.",
		focus:   "Highlight technologies used, quantify impact, show problem-solving abilities, and demonstrate relevant skills.",
	},
}

func matchPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(matchPromptTemplate, resumeText, jobDescription)
}

func overallPrompt(resumeText string) string {
	return fmt.Sprintf(overallPromptTemplate, resumeText)
}

// improvePrompt falls back to the summary template for unknown section
// types, matching what clients already rely on.
func improvePrompt(section, originalText string) string {
	info, ok := sectionPrompts[strings.ToLower(strings.TrimSpace(section))]
	if !ok {
		info = sectionPrompts["summary"]
	}
	return fmt.Sprintf(improvePromptTemplate, info.title, info.title, info.context, info.focus, originalText)
}
