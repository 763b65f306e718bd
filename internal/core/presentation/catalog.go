package presentation

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FallbackDescription is shown for identifiers missing from the catalog.
const FallbackDescription = "No description available."

// Describer resolves a candidate identifier to human-readable text.
type Describer interface {
	Describe(id string) string
}

// Catalog is an immutable identifier to description table.
type Catalog map[string]string

var _ Describer = Catalog(nil)

// Describe never fails: unknown identifiers resolve to FallbackDescription.
func (c Catalog) Describe(id string) string {
	if text, ok := c[id]; ok {
		return text
	}
	return FallbackDescription
}

// Merge returns a new catalog with other's entries layered over c.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LoadCatalog decodes a YAML mapping of identifier to description.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if err == io.EOF {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// Caption is the display text for an activated candidate.
func Caption(id, text string) string {
	return fmt.Sprintf("Focused on: %s\n%s", id, text)
}

// DefaultCatalog describes the jet engine and industrial robot models.
func DefaultCatalog() Catalog {
	return Catalog{
		"Inner_Nozzle":               "The inner nozzle guides and shapes the flow of exhaust gases exiting the combustion chamber in a jet engine.",
		"Outer_Nozzle":               "The outer nozzle surrounds the inner components of the jet engine and helps to further direct and accelerate the exhaust gases for efficient propulsion.",
		"Turbine_Shaft":              "The turbine shaft connects the turbine to the compressor, transmitting power generated by the combustion process to drive the engine's components.",
		"Core_Shell":                 "The core shell encases the engine's central components, such as the compressor, combustion chamber, and turbine, providing structural support and housing for these vital parts.",
		"Fan_Rim":                    "The fan rim is the outermost structure of the engine's fan assembly, supporting the fan blades and aiding in the intake and compression of air for propulsion.",
		"Turbofan":                   "The turbofan is a type of jet engine that combines a traditional turbojet engine with a large fan at the front, providing additional thrust and enhanced fuel efficiency.",
		"Hi_pressure_blades":         "High-pressure blades are located in the core of a jet engine and are responsible for extracting energy from the high-pressure gas flow produced by the combustion process, driving the engine's compressor and turbine stages.",
		"Hi_pressure_blades2":        "High-pressure blades are located in the core of a jet engine and are responsible for extracting energy from the high-pressure gas flow produced by the combustion process, driving the engine's compressor and turbine stages.",
		"Low_PC_Body":                "The low-pressure compressor body houses the components responsible for compressing incoming air at lower pressure levels before it reaches the high-pressure compressor, contributing to the overall compression process within the jet engine.",
		"LP_blades":                  "The low-pressure blades are situated within the low-pressure compressor and are responsible for further compressing incoming air at lower pressure levels before it enters the combustion chamber, aiding in the overall compression process of the jet engine.",
		"Turbine_Blades":             "Turbine blades are mounted on the turbine shaft and are responsible for extracting energy from the high-pressure and high-velocity gases produced during combustion, converting this energy into rotational motion to drive the engine's compressor and other components.",
		"Low_presure_ribs_and_shell": "The low-pressure ribs and shell provide structural support and enclosure for the low-pressure components of the jet engine, such as the low-pressure compressor and associated blades, contributing to the overall integrity and efficiency of the engine's operation.",
		"Support_Ribs":               "Support ribs are structural components within the engine's casing or housing that reinforce and support various parts, such as compressor and turbine sections, ensuring structural integrity and proper alignment during operation.",
		"High_Pressure_compresor":    "The high-pressure compressor is a crucial component of a jet engine's core, responsible for compressing incoming air before it enters the combustion chamber, thereby increasing its pressure and facilitating efficient combustion.",
		"arm":                        "The arm of an industrial robot typically consists of multiple joints and links, allowing it to move in a coordinated manner to perform various tasks with precision and flexibility.",
		"link arm":                   "The link arm in an industrial robot connects different joints together, providing structural support and facilitating movement in a coordinated manner to execute specific tasks efficiently.",
		"Base low":                   "The base_low of an industrial robot serves as the foundation, providing stability and support to the entire robotic system while allowing for precise positioning and movement during operation.",
		"Gripper":                    "The gripper of an industrial robot is responsible for grasping and manipulating objects, employing various mechanisms such as jaws, vacuum suction, or magnetic attraction to securely hold items during tasks.",
		"foundation_low":             "The foundation low of an industrial robot provides stability and support to the robot, ensuring proper alignment and minimizing vibrations during operation to maintain accuracy and safety.",
	}
}
